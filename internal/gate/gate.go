package gate

import (
	"net/url"
	"strings"
)

// Decision 单次导航判定结果
type Decision string

const (
	Allowed Decision = "allowed"
	Blocked Decision = "blocked"
)

// Policy 导航拦截策略。
// RequiredCount 为 0 时表示需要完成全部习惯；AllowedHosts 中的
// 域名及其子域名不受拦截。
type Policy struct {
	RequiredCount int      `json:"requiredCount"`
	AllowedHosts  []string `json:"allowedHosts"`
}

// Progress 今日进度快照（由扩展观察页面得出，允许滞后）
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Needed 本日解除拦截所需的完成数
func (p Policy) Needed(total int) int {
	if p.RequiredCount > 0 {
		return p.RequiredCount
	}
	return total
}

// Satisfied 进度是否已满足策略要求
func (p Progress) Satisfied(policy Policy) bool {
	return p.Completed >= policy.Needed(p.Total)
}

// Evaluate 判定一次导航是否放行。规则按顺序：
//  1. 非 http/https 目标直接放行；
//  2. 目标是应用自身域名放行；
//  3. total == 0（尚无习惯数据）放行，状态未知时宁可放过；
//  4. 目标命中白名单（含子域名）放行；
//  5. 完成数达到要求放行，否则拦截。
//
// URL 解析失败视为不可导航的目标，放行，绝不因解析错误困住用户。
func Evaluate(rawURL, appHost string, progress Progress, policy Policy) Decision {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Allowed
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Allowed
	}

	host := u.Hostname()
	if host == "" {
		return Allowed
	}
	if hostMatches(host, appHost) {
		return Allowed
	}
	if progress.Total == 0 {
		return Allowed
	}
	for _, allowed := range policy.AllowedHosts {
		if hostMatches(host, allowed) {
			return Allowed
		}
	}
	if progress.Satisfied(policy) {
		return Allowed
	}
	return Blocked
}

// hostMatches 目标域名等于 base 或是 base 的子域名
func hostMatches(host, base string) bool {
	if base == "" {
		return false
	}
	host = strings.ToLower(host)
	base = strings.ToLower(base)
	return host == base || strings.HasSuffix(host, "."+base)
}
