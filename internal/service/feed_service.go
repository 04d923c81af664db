package service

import (
	"errors"
	"habitloop_backend/internal/config"
	"habitloop_backend/internal/model"
	"habitloop_backend/internal/repository"
	"habitloop_backend/internal/streak"
	"habitloop_backend/internal/util"
	"habitloop_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 每日最多可分享的打卡条数
const dailyShareLimit = 3

type FeedService struct {
	FeedRepo    *repository.FeedRepository
	CheckInRepo *repository.CheckInRepository
	HabitRepo   *repository.HabitRepository
	FriendRepo  *repository.FriendshipRepository
	Cfg         *config.Config
}

func NewFeedService(
	feedRepo *repository.FeedRepository,
	checkInRepo *repository.CheckInRepository,
	habitRepo *repository.HabitRepository,
	friendRepo *repository.FriendshipRepository,
	cfg *config.Config,
) *FeedService {
	return &FeedService{
		FeedRepo:    feedRepo,
		CheckInRepo: checkInRepo,
		HabitRepo:   habitRepo,
		FriendRepo:  friendRepo,
		Cfg:         cfg,
	}
}

type ShareRequest struct {
	CheckInID string `json:"checkInId" binding:"required"`
	Content   string `json:"content" binding:"max=500"`
	Public    bool   `json:"public"`
}

type CommentCreateRequest struct {
	Content  string  `json:"content" binding:"required,max=1000"`
	ParentID *string `json:"parentId"`
	ToUserID *uint   `json:"toUserId"`
}

type FeedPostResponse struct {
	ID           string    `json:"id"`
	Author       string    `json:"author"`
	AuthorID     uint      `json:"authorId"`
	Avatar       string    `json:"avatar"`
	Content      string    `json:"content"`
	PhotoURL     string    `json:"photoUrl"`
	HabitTitle   string    `json:"habitTitle"`
	StreakAfter  int       `json:"streakAfter"`
	Public       bool      `json:"public"`
	CreatedAt    time.Time `json:"createdAt"`
	Likes        int       `json:"likes"`
	Views        int       `json:"views"`
	CommentCount int       `json:"commentCount"`
	IsLiked      bool      `json:"isLiked"`
}

type ReplyResponse struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	AuthorID  uint      `json:"authorId"`
	Avatar    string    `json:"avatar"`
	Content   string    `json:"content"`
	ToUser    string    `json:"toUser,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int       `json:"likes"`
	IsLiked   bool      `json:"isLiked"`
}

type CommentResponse struct {
	ID        string          `json:"id"`
	Author    string          `json:"author"`
	AuthorID  uint            `json:"authorId"`
	Avatar    string          `json:"avatar"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
	Likes     int             `json:"likes"`
	Replies   []ReplyResponse `json:"replies"`
	IsLiked   bool            `json:"isLiked"`
}

type FeedDetailResponse struct {
	FeedPostResponse
	Comments []CommentResponse `json:"comments"`
}

// Share 把一次打卡分享到动态，每天最多 3 条
func (s *FeedService) Share(userID uint, req ShareRequest) (*model.FeedPost, error) {
	checkIn, err := s.CheckInRepo.FindByID(req.CheckInID)
	if err != nil {
		return nil, util.ErrCheckInNotFound
	}

	habit, err := s.HabitRepo.FindByID(checkIn.HabitID)
	if err != nil {
		return nil, util.ErrHabitNotFound
	}
	if habit.OwnerID != userID {
		return nil, util.ErrPermissionDenied
	}

	loc := s.Cfg.Location()
	today := streak.DayOf(time.Now(), loc)
	shared, err := s.CheckInRepo.CountSharedOnDay(userID, today)
	if err != nil {
		return nil, err
	}
	if shared >= dailyShareLimit {
		return nil, util.ErrDailyShareLimit
	}

	post := &model.FeedPost{
		AuthorID:  userID,
		CheckInID: checkIn.ID,
		Content:   req.Content,
		PhotoURL:  checkIn.PhotoURL,
		Public:    req.Public,
	}
	if err := s.FeedRepo.CreatePost(post); err != nil {
		return nil, err
	}

	// 标记失败不影响已创建的动态，记日志即可
	if err := s.CheckInRepo.MarkShared(checkIn.ID); err != nil {
		logger.Log.Warn("Failed to mark check-in as shared",
			zap.String("checkInId", checkIn.ID), zap.Error(err))
	}

	return post, nil
}

// GetFeed 动态流。viewerID 为 0 时按游客处理，只返回公开动态
func (s *FeedService) GetFeed(viewerID uint, page, limit int) ([]FeedPostResponse, int64, error) {
	var friendIDs []uint
	if viewerID != 0 {
		ids, err := s.FriendRepo.GetFriendIDsCached(viewerID)
		if err == nil {
			friendIDs = ids
		}
	}

	offset := (page - 1) * limit
	posts, total, err := s.FeedRepo.FindVisible(viewerID, friendIDs, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	likedSet, _ := s.FeedRepo.LikedSet(viewerID, "post", ids)

	responses := make([]FeedPostResponse, len(posts))
	for i, post := range posts {
		responses[i] = s.toPostResponse(&post, likedSet[post.ID])
	}
	return responses, total, nil
}

func (s *FeedService) GetPostDetail(viewerID uint, postID string) (*FeedDetailResponse, error) {
	post, err := s.FeedRepo.GetPost(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPostNotFound
		}
		return nil, err
	}

	if err := s.canView(viewerID, post); err != nil {
		return nil, err
	}

	go s.FeedRepo.IncrementViews(postID)

	comments, err := s.FeedRepo.GetComments(postID)
	if err != nil {
		return nil, err
	}

	likedPosts, _ := s.FeedRepo.LikedSet(viewerID, "post", []string{postID})

	commentIDs := make([]string, len(comments))
	for i, c := range comments {
		commentIDs[i] = c.ID
	}
	likedComments, _ := s.FeedRepo.LikedSet(viewerID, "comment", commentIDs)

	detail := &FeedDetailResponse{
		FeedPostResponse: s.toPostResponse(post, likedPosts[postID]),
		Comments:         assembleComments(comments, likedComments),
	}
	return detail, nil
}

func (s *FeedService) CreateComment(userID uint, postID string, req CommentCreateRequest) (*model.FeedComment, error) {
	post, err := s.FeedRepo.GetPost(postID)
	if err != nil {
		return nil, util.ErrPostNotFound
	}
	if err := s.canView(userID, post); err != nil {
		return nil, err
	}

	comment := &model.FeedComment{
		PostID:     postID,
		AuthorID:   userID,
		Content:    req.Content,
		ParentID:   req.ParentID,
		ReplyToUID: req.ToUserID,
	}
	if err := s.FeedRepo.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *FeedService) DeleteComment(userID uint, commentID string) error {
	comment, err := s.FeedRepo.GetComment(commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return util.ErrPermissionDenied
	}
	return s.FeedRepo.DeleteComment(commentID)
}

func (s *FeedService) ToggleLike(userID uint, contentType, contentID string) (bool, error) {
	if contentType != "post" && contentType != "comment" {
		return false, errors.New("unsupported content type")
	}
	return s.FeedRepo.ToggleLike(userID, contentType, contentID)
}

func (s *FeedService) DeletePost(userID uint, postID string) error {
	post, err := s.FeedRepo.GetPost(postID)
	if err != nil {
		return util.ErrPostNotFound
	}
	if post.AuthorID != userID {
		return util.ErrPermissionDenied
	}
	return s.FeedRepo.DeletePost(postID)
}

// canView 非公开动态仅作者和好友可见
func (s *FeedService) canView(viewerID uint, post *model.FeedPost) error {
	if post.Public || post.AuthorID == viewerID {
		return nil
	}
	isFriend, err := s.FriendRepo.IsFriend(post.AuthorID, viewerID)
	if err != nil {
		return err
	}
	if !isFriend {
		return util.ErrPermissionDenied
	}
	return nil
}

func (s *FeedService) toPostResponse(post *model.FeedPost, isLiked bool) FeedPostResponse {
	resp := FeedPostResponse{
		ID:           post.ID,
		Author:       post.Author.Name,
		AuthorID:     post.AuthorID,
		Avatar:       post.Author.Avatar,
		Content:      post.Content,
		PhotoURL:     post.PhotoURL,
		StreakAfter:  post.CheckIn.StreakAfter,
		Public:       post.Public,
		CreatedAt:    post.CreatedAt,
		Likes:        post.Upvotes,
		Views:        post.Views,
		CommentCount: len(post.Comments),
		IsLiked:      isLiked,
	}

	if post.CheckIn.HabitID != "" {
		if habit, err := s.HabitRepo.FindByID(post.CheckIn.HabitID); err == nil {
			resp.HabitTitle = habit.Title
		}
	}
	return resp
}

// assembleComments 把平铺的评论按父子关系组装成一层回复的树
func assembleComments(comments []model.FeedComment, liked map[string]bool) []CommentResponse {
	var top []CommentResponse
	index := make(map[string]int)

	for _, c := range comments {
		if c.ParentID == nil {
			top = append(top, CommentResponse{
				ID:        c.ID,
				Author:    c.Author.Name,
				AuthorID:  c.AuthorID,
				Avatar:    c.Author.Avatar,
				Content:   c.Content,
				CreatedAt: c.CreatedAt,
				Likes:     c.Upvotes,
				IsLiked:   liked[c.ID],
			})
			index[c.ID] = len(top) - 1
		}
	}

	for _, c := range comments {
		if c.ParentID == nil {
			continue
		}
		i, ok := index[*c.ParentID]
		if !ok {
			continue
		}
		reply := ReplyResponse{
			ID:        c.ID,
			Author:    c.Author.Name,
			AuthorID:  c.AuthorID,
			Avatar:    c.Author.Avatar,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			Likes:     c.Upvotes,
			IsLiked:   liked[c.ID],
		}
		if c.ReplyToUser != nil {
			reply.ToUser = c.ReplyToUser.Name
		}
		top[i].Replies = append(top[i].Replies, reply)
	}

	return top
}
