package scheduler

import (
	"sync"
	"time"

	"github.com/blues/fundflow/internal/config"
	"github.com/blues/fundflow/internal/logger"
	"github.com/blues/fundflow/internal/model"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// CampaignFinishJob 活动收尾任务：把过了截止时间还在进行中的活动置为 completed
type CampaignFinishJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewCampaignFinishJob 创建活动收尾任务
func NewCampaignFinishJob(db *gorm.DB, cfg *config.Config) *CampaignFinishJob {
	return &CampaignFinishJob{
		db:     db,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *CampaignFinishJob) GetName() string {
	return "campaign_finisher"
}

// GetSchedule 获取调度配置
func (j *CampaignFinishJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *CampaignFinishJob) Execute() {
	now := time.Now()

	var campaigns []model.Campaign
	err := j.db.Where("status = ? AND end_date IS NOT NULL AND end_date <= ?",
		model.CampaignStatusActive, now).
		Find(&campaigns).Error
	if err != nil {
		logger.Error("Failed to fetch expiring campaigns: %v", err)
		return
	}
	if len(campaigns) == 0 {
		return
	}

	workers := j.config.Task.Workers
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		logger.Error("Failed to create worker pool: %v", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range campaigns {
		campaign := campaigns[i]
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			j.finish(&campaign)
		})
		if submitErr != nil {
			wg.Done()
			logger.Error("Failed to submit campaign %d to pool: %v", campaign.ID, submitErr)
		}
	}
	wg.Wait()

	logger.Info("Campaign finish sweep completed, processed %d campaigns", len(campaigns))
}

// finish 单个活动收尾，状态机只允许 active → completed，
// 条件更新防止和手工状态变更竞争
func (j *CampaignFinishJob) finish(campaign *model.Campaign) {
	res := j.db.Model(&model.Campaign{}).
		Where("id = ? AND status = ?", campaign.ID, model.CampaignStatusActive).
		Update("status", model.CampaignStatusCompleted)
	if res.Error != nil {
		logger.Error("Failed to finish campaign %d: %v", campaign.ID, res.Error)
		return
	}
	if res.RowsAffected > 0 {
		logger.Info("Campaign %d finished (end date passed)", campaign.ID)
	}
}
