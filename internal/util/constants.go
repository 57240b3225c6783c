package util

// DateFormat 任务日期的存储格式（YYYY-MM-DD）
const DateFormat = "2006-01-02"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 大纲附件允许的 MIME 类型前缀
const (
	MimeImage = "image/"
	MimePDF   = "application/pdf"
	MimeText  = "text/"
)

// MaxSyllabusDocuments 单次计划生成允许携带的附件上限
const MaxSyllabusDocuments = 10
