package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var loc = time.UTC

func at(day string, hour int) time.Time {
	d, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		panic(err)
	}
	return d.Add(time.Duration(hour) * time.Hour)
}

func day(s string) time.Time {
	return DayOf(at(s, 0), loc)
}

func TestDayOfTruncates(t *testing.T) {
	d := DayOf(at("2024-01-01", 23), loc)
	assert.Equal(t, day("2024-01-01"), d)
	assert.Equal(t, 0, d.Hour())
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same day", day("2024-01-01"), day("2024-01-01"), 0},
		{"next day", day("2024-01-01"), day("2024-01-02"), 1},
		{"four days", day("2024-01-01"), day("2024-01-05"), 4},
		{"across month", day("2024-01-31"), day("2024-02-01"), 1},
		{"leap february", day("2024-02-28"), day("2024-03-01"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.from, tt.to))
		})
	}
}

// 23 点打卡、次日 1 点再打卡，虽然相隔不足 24 小时，也必须算作隔了一天。
func TestDaysBetweenNearMidnight(t *testing.T) {
	from := DayOf(at("2024-01-01", 23), loc)
	to := DayOf(at("2024-01-02", 1), loc)
	assert.Equal(t, 1, DaysBetween(from, to))
}

func TestIsCheckedIn(t *testing.T) {
	history := []time.Time{at("2024-01-01", 9), at("2024-01-03", 22)}

	assert.True(t, IsCheckedIn(history, day("2024-01-01"), loc))
	assert.True(t, IsCheckedIn(history, day("2024-01-03"), loc))
	assert.False(t, IsCheckedIn(history, day("2024-01-02"), loc))
	assert.False(t, IsCheckedIn(nil, day("2024-01-01"), loc))
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name    string
		history []time.Time
		ref     time.Time
		want    int
	}{
		{"empty history", nil, day("2024-01-05"), 0},
		{"single today", []time.Time{at("2024-01-05", 9)}, day("2024-01-05"), 1},
		{"three consecutive", []time.Time{at("2024-01-03", 9), at("2024-01-04", 9), at("2024-01-05", 9)}, day("2024-01-05"), 3},
		{"gap breaks walk", []time.Time{at("2024-01-01", 9), at("2024-01-03", 9), at("2024-01-04", 9)}, day("2024-01-04"), 2},
		{"grace window yesterday", []time.Time{at("2024-01-03", 9), at("2024-01-04", 9)}, day("2024-01-05"), 2},
		{"two missed days kills streak", []time.Time{at("2024-01-03", 9)}, day("2024-01-05"), 0},
		{"duplicate same-day entries dedup", []time.Time{at("2024-01-05", 9), at("2024-01-05", 20)}, day("2024-01-05"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentStreak(tt.history, tt.ref, loc))
		})
	}
}

// D..D+k 连续无缺口时，连击应为 k+1。
func TestCurrentStreakConsecutiveLaw(t *testing.T) {
	var history []time.Time
	for k := 0; k < 10; k++ {
		history = append(history, at("2024-01-01", 8).AddDate(0, 0, k))
		got := CurrentStreak(history, day("2024-01-01").AddDate(0, 0, k), loc)
		require.Equal(t, k+1, got, "k=%d", k)
	}
}

func TestNextStreakFirstCheckIn(t *testing.T) {
	got, err := NextStreak(0, nil, at("2024-01-01", 9), loc)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestNextStreakConsecutive(t *testing.T) {
	last := at("2024-01-02", 22)
	got, err := NextStreak(2, &last, at("2024-01-03", 8), loc)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestNextStreakReset(t *testing.T) {
	last := at("2024-01-01", 8)
	got, err := NextStreak(1, &last, at("2024-01-05", 8), loc)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestNextStreakDuplicateDay(t *testing.T) {
	last := at("2024-01-01", 8)
	_, err := NextStreak(1, &last, at("2024-01-01", 20), loc)
	assert.ErrorIs(t, err, ErrDuplicateCheckIn)
}

// 23 点打卡后次日 1 点打卡，必须算连续而不是重复。
func TestNextStreakAcrossMidnight(t *testing.T) {
	last := at("2024-01-01", 23)
	got, err := NextStreak(1, &last, at("2024-01-02", 1), loc)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

// 历史上存在缺口时，新连击以最近一次打卡为准。
func TestNextStreakExtendsFromLatest(t *testing.T) {
	// D 与 D+2 有打卡（缺 D+1），连击缓存为 1；在 D+3 打卡应得 2。
	last := at("2024-01-03", 9)
	got, err := NextStreak(1, &last, at("2024-01-04", 9), loc)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestSortedDays(t *testing.T) {
	history := []time.Time{at("2024-01-03", 9), at("2024-01-01", 9), at("2024-01-03", 20)}
	days := SortedDays(history, loc)
	require.Len(t, days, 2)
	assert.Equal(t, day("2024-01-01"), days[0])
	assert.Equal(t, day("2024-01-03"), days[1])
}

func TestTimezoneBoundary(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	// UTC 2024-01-01 18:00 在上海已经是 1 月 2 日凌晨。
	instant := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, day("2024-01-02"), DayOf(instant, shanghai))
	assert.Equal(t, day("2024-01-01"), DayOf(instant, time.UTC))
}
