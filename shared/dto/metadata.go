package dto

import (
	"innkeep/shared/constant"
	"innkeep/shared/model"
	"innkeep/shared/timezone"
)

// Audit is the who/when trail every claim and room response carries, with times at the property.
type Audit struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func AuditOf(metadata model.Metadata) Audit {
	return Audit{
		CreatedAt:  timezone.Format(metadata.CreatedAt, constant.DateFormat),
		ModifiedAt: timezone.Format(metadata.ModifiedAt, constant.DateFormat),
		CreatedBy:  metadata.CreatedBy,
		ModifiedBy: metadata.ModifiedBy,
	}
}
