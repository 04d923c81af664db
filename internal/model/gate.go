package model

// GateSettings 浏览器扩展的导航拦截策略，按用户持久化。
// RequiredCount 为 0 表示需要完成当天全部习惯；AllowedHosts 逗号分隔，
// 命中的域名及其子域名不受拦截。进度快照不落库，见 GateRepository 的 Redis 缓存。
type GateSettings struct {
	BaseModel
	UserID        uint   `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	RequiredCount int    `gorm:"default:0" json:"requiredCount"`
	AllowedHosts  string `gorm:"size:1000" json:"allowedHosts"`
	Enabled       bool   `gorm:"default:true" json:"enabled"`
}

func (GateSettings) TableName() string {
	return "gate_settings"
}
