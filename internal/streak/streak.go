package streak

import (
	"errors"
	"sort"
	"time"
)

// ErrDuplicateCheckIn 同一自然日内重复打卡
var ErrDuplicateCheckIn = errors.New("今天已经打过卡了")

// DayOf 把时刻截断为自然日（以 loc 为准），返回对应日零点的 UTC 表示。
// 统一转成 UTC 零点后做日差运算，避免夏令时导致的小时数偏差。
func DayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween 两个自然日之间的整数天差（to - from）。
// 入参必须是 DayOf 的结果；跨午夜不足 24 小时也按 1 天计。
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// IsCheckedIn 判断历史记录中是否存在落在 day 这个自然日的打卡。
func IsCheckedIn(history []time.Time, day time.Time, loc *time.Location) bool {
	for _, t := range history {
		if DayOf(t, loc).Equal(day) {
			return true
		}
	}
	return false
}

// CurrentStreak 计算展示用的连续打卡天数。
// 从 ref 往前逐日回溯，遇到第一个缺口停止；若 ref 当天没有打卡，
// 允许一天的宽限（昨天打过卡则连击仍视为存活）。仅用于展示，
// 记录新打卡时的连击计算见 NextStreak，不含宽限。
func CurrentStreak(history []time.Time, ref time.Time, loc *time.Location) int {
	if len(history) == 0 {
		return 0
	}

	// 按自然日去重
	daySet := make(map[time.Time]struct{}, len(history))
	for _, t := range history {
		daySet[DayOf(t, loc)] = struct{}{}
	}

	day := ref
	if _, ok := daySet[day]; !ok {
		day = day.AddDate(0, 0, -1)
		if _, ok := daySet[day]; !ok {
			return 0
		}
	}

	count := 0
	for {
		if _, ok := daySet[day]; !ok {
			break
		}
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}

// NextStreak 记录新打卡时的连击值。
// last 为最近一次打卡时刻（nil 表示首次打卡）；now 为本次打卡时刻。
// 恰好隔一天则连击 +1，隔多天归 1，同一天返回 ErrDuplicateCheckIn。
func NextStreak(prev int, last *time.Time, now time.Time, loc *time.Location) (int, error) {
	if last == nil {
		return 1, nil
	}

	gap := DaysBetween(DayOf(*last, loc), DayOf(now, loc))
	switch {
	case gap == 0:
		return 0, ErrDuplicateCheckIn
	case gap == 1:
		return prev + 1, nil
	default:
		return 1, nil
	}
}

// SortedDays 返回历史记录去重后的自然日列表（升序），供日历视图使用。
func SortedDays(history []time.Time, loc *time.Location) []time.Time {
	daySet := make(map[time.Time]struct{}, len(history))
	for _, t := range history {
		daySet[DayOf(t, loc)] = struct{}{}
	}
	days := make([]time.Time, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
