package implementation

import (
	"context"
	"errors"
	"time"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/mapper"
	"ai-chatbot-be/internal/model"
	"ai-chatbot-be/internal/repository/contract"
	"ai-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewConversationRepository(db *gorm.DB) contract.ConversationRepository {
	return &ConversationRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ConversationRepositoryImpl) Create(ctx context.Context, conversation *entity.Conversation) error {
	modelConv := r.mapper.ToModel(conversation)
	if err := r.db.WithContext(ctx).Create(modelConv).Error; err != nil {
		return err
	}
	*conversation = *r.mapper.ToEntity(modelConv)
	return nil
}

func (r *ConversationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	var modelConv model.Conversation
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelConv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelConv), nil
}

func (r *ConversationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	var modelConvs []*model.Conversation
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelConvs).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelConvs), nil
}

func (r *ConversationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Conversation{}).Error
}

func (r *ConversationRepositoryImpl) UpdateTitle(ctx context.Context, id uuid.UUID, title string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":      title,
			"updated_at": at,
		}).Error
}

func (r *ConversationRepositoryImpl) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", at).Error
}
