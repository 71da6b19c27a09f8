package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 导出格式
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatTXT  = "txt"
	FormatPDF  = "pdf"
)

const (
	MimeJSON  = "application/json"
	MimeCSV   = "text/csv"
	MimePlain = "text/plain"
	MimePDF   = "application/pdf"
)

const (
	SessionCookie = "assessment_session"
	SessionHeader = "X-Session-Token"
	MaxTextLength = 1000
)
