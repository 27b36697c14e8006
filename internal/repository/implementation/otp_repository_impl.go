package implementation

import (
	"context"
	"errors"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/mapper"
	"ai-chatbot-be/internal/model"
	"ai-chatbot-be/internal/repository/contract"

	"gorm.io/gorm"
)

type OtpRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.OtpMapper
}

func NewOtpRepository(db *gorm.DB) contract.OtpRepository {
	return &OtpRepositoryImpl{
		db:     db,
		mapper: mapper.NewOtpMapper(),
	}
}

func (r *OtpRepositoryImpl) Create(ctx context.Context, code *entity.OtpCode) error {
	modelCode := r.mapper.ToModel(code)
	if err := r.db.WithContext(ctx).Create(modelCode).Error; err != nil {
		return err
	}
	*code = *r.mapper.ToEntity(modelCode)
	return nil
}

func (r *OtpRepositoryImpl) FindLatestByEmail(ctx context.Context, email string) (*entity.OtpCode, error) {
	var modelCode model.OtpCode
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		First(&modelCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&modelCode), nil
}

func (r *OtpRepositoryImpl) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&model.OtpCode{}).Error
}
