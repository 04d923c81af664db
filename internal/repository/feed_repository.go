package repository

import (
	"habitloop_backend/internal/model"

	"gorm.io/gorm"
)

type FeedRepository struct {
	DB *gorm.DB
}

func NewFeedRepository(db *gorm.DB) *FeedRepository {
	return &FeedRepository{DB: db}
}

func (r *FeedRepository) CreatePost(post *model.FeedPost) error {
	return r.DB.Create(post).Error
}

func (r *FeedRepository) GetPost(id string) (*model.FeedPost, error) {
	var post model.FeedPost
	err := r.DB.Preload("Author").Preload("CheckIn").First(&post, "id = ?", id).Error
	return &post, err
}

// FindVisible 分页取动态：自己的、好友的，以及公开的
func (r *FeedRepository) FindVisible(viewerID uint, friendIDs []uint, offset, limit int) ([]model.FeedPost, int64, error) {
	var posts []model.FeedPost
	var total int64

	authorIDs := append([]uint{viewerID}, friendIDs...)
	db := r.DB.Model(&model.FeedPost{}).
		Where("author_id IN ? OR public = ?", authorIDs, true)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Author").Preload("CheckIn").Preload("Comments").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *FeedRepository) FindByAuthor(authorID uint, offset, limit int) ([]model.FeedPost, int64, error) {
	var posts []model.FeedPost
	var total int64

	db := r.DB.Model(&model.FeedPost{}).Where("author_id = ?", authorID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Author").Preload("CheckIn").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *FeedRepository) DeletePost(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.FeedComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_type = ? AND content_id = ?", "post", id).Delete(&model.FeedLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.FeedPost{}, "id = ?", id).Error
	})
}

func (r *FeedRepository) IncrementViews(id string) error {
	return r.DB.Model(&model.FeedPost{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).Error
}

func (r *FeedRepository) CreateComment(comment *model.FeedComment) error {
	return r.DB.Create(comment).Error
}

func (r *FeedRepository) GetComment(id string) (*model.FeedComment, error) {
	var comment model.FeedComment
	err := r.DB.First(&comment, "id = ?", id).Error
	return &comment, err
}

func (r *FeedRepository) GetComments(postID string) ([]model.FeedComment, error) {
	var comments []model.FeedComment
	err := r.DB.Preload("Author").Preload("ReplyToUser").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *FeedRepository) DeleteComment(id string) error {
	return r.DB.Delete(&model.FeedComment{}, "id = ?", id).Error
}

// ToggleLike 点赞/取消点赞，返回操作后是否为点赞状态。
// 点赞数冗余在内容行上，和点赞记录同一事务更新。
func (r *FeedRepository) ToggleLike(userID uint, contentType, contentID string) (bool, error) {
	liked := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.FeedLike
		err := tx.Where("user_id = ? AND content_type = ? AND content_id = ?",
			userID, contentType, contentID).First(&existing).Error

		if err == nil {
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			return r.bumpUpvotes(tx, contentType, contentID, -1)
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		like := model.FeedLike{
			UserID:      userID,
			ContentType: contentType,
			ContentID:   contentID,
		}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		liked = true
		return r.bumpUpvotes(tx, contentType, contentID, 1)
	})
	return liked, err
}

func (r *FeedRepository) bumpUpvotes(tx *gorm.DB, contentType, contentID string, delta int) error {
	switch contentType {
	case "post":
		return tx.Model(&model.FeedPost{}).Where("id = ?", contentID).
			Update("upvotes", gorm.Expr("upvotes + ?", delta)).Error
	case "comment":
		return tx.Model(&model.FeedComment{}).Where("id = ?", contentID).
			Update("upvotes", gorm.Expr("upvotes + ?", delta)).Error
	}
	return nil
}

// LikedSet 批量查询 viewer 对一组内容的点赞状态
func (r *FeedRepository) LikedSet(userID uint, contentType string, contentIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(contentIDs))
	if userID == 0 || len(contentIDs) == 0 {
		return result, nil
	}

	var likes []model.FeedLike
	err := r.DB.Where("user_id = ? AND content_type = ? AND content_id IN ?",
		userID, contentType, contentIDs).Find(&likes).Error
	if err != nil {
		return nil, err
	}
	for _, like := range likes {
		result[like.ContentID] = true
	}
	return result, nil
}
