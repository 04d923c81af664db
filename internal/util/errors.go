package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")
	ErrHabitNotFound    = errors.New("habit not found")
	ErrHabitLimit       = errors.New("最多只能同时拥有 5 个习惯")
	ErrCheckInNotFound  = errors.New("check-in not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrDailyShareLimit  = errors.New("daily share limit reached (max 3)")
	ErrNotFriends       = errors.New("对方还不是你的好友")
)
