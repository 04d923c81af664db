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

// 文件上传相关常量
const (
	MimeImage       = "image/"
	MimeOctetStream = "application/octet-stream"

	// 打卡配图和头像的大小上限
	MaxUploadBytes = 8 << 20
)
