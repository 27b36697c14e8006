package mapper

import (
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/model"
)

type OtpMapper struct{}

func NewOtpMapper() *OtpMapper {
	return &OtpMapper{}
}

func (m *OtpMapper) ToEntity(o *model.OtpCode) *entity.OtpCode {
	if o == nil {
		return nil
	}
	return &entity.OtpCode{
		Id:        o.Id,
		Email:     o.Email,
		Code:      o.Code,
		ExpiresAt: o.ExpiresAt,
		CreatedAt: o.CreatedAt,
	}
}

func (m *OtpMapper) ToModel(o *entity.OtpCode) *model.OtpCode {
	if o == nil {
		return nil
	}
	return &model.OtpCode{
		Id:        o.Id,
		Email:     o.Email,
		Code:      o.Code,
		ExpiresAt: o.ExpiresAt,
		CreatedAt: o.CreatedAt,
	}
}
