package repository

import (
	"context"
	"time"

	"github.com/Luismorlan/tunemux/model"
	"gorm.io/gorm"
)

type AssetJobRepository interface {
	Create(ctx context.Context, job *model.AssetJob) error
	GetByID(ctx context.Context, id string) (*model.AssetJob, error)
	GetByIDForUpdate(ctx context.Context, id string) (*model.AssetJob, error)
	Update(ctx context.Context, job *model.AssetJob) error
	FailUnfinished(ctx context.Context, reason string) (int64, error)
}

type GormAssetJobRepository struct {
	db *gorm.DB
}

func NewAssetJobRepository(db *gorm.DB) *GormAssetJobRepository {
	return &GormAssetJobRepository{db: db}
}

func (r *GormAssetJobRepository) Create(ctx context.Context, job *model.AssetJob) error {
	return translateError(conn(ctx, r.db).Create(job).Error, "failed to create asset job")
}

func (r *GormAssetJobRepository) GetByID(ctx context.Context, id string) (*model.AssetJob, error) {
	var job model.AssetJob
	if err := conn(ctx, r.db).First(&job, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "failed to get asset job")
	}
	return &job, nil
}

func (r *GormAssetJobRepository) GetByIDForUpdate(ctx context.Context, id string) (*model.AssetJob, error) {
	var job model.AssetJob
	if err := forUpdate(conn(ctx, r.db)).First(&job, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "failed to get asset job")
	}
	return &job, nil
}

func (r *GormAssetJobRepository) Update(ctx context.Context, job *model.AssetJob) error {
	return translateError(conn(ctx, r.db).Save(job).Error, "failed to update asset job")
}

// FailUnfinished marks every pending or running job as failed. Jobs only live
// in the process that accepted them, so after a restart nobody will finish
// them.
func (r *GormAssetJobRepository) FailUnfinished(ctx context.Context, reason string) (int64, error) {
	res := conn(ctx, r.db).
		Model(&model.AssetJob{}).
		Where("status IN ?", []model.AssetJobStatus{model.AssetJobPending, model.AssetJobRunning}).
		Updates(map[string]interface{}{
			"status":      model.AssetJobFailed,
			"error":       reason,
			"finished_at": time.Now(),
		})
	return res.RowsAffected, translateError(res.Error, "failed to fail unfinished asset jobs")
}
