package repository

import (
	"skillxchange_backend/internal/model"

	"gorm.io/gorm"
)

type LearningRepository struct {
	DB *gorm.DB
}

func NewLearningRepository(db *gorm.DB) *LearningRepository {
	return &LearningRepository{DB: db}
}

func (r *LearningRepository) WithTx(tx *gorm.DB) *LearningRepository {
	return &LearningRepository{DB: tx}
}

func (r *LearningRepository) Create(s *model.LearningSession) error {
	return r.DB.Create(s).Error
}

func (r *LearningRepository) FindByID(id uint) (*model.LearningSession, error) {
	var s model.LearningSession
	err := r.DB.Preload("Learner").Preload("Teacher").First(&s, id).Error
	return &s, err
}

func (r *LearningRepository) Save(s *model.LearningSession) error {
	return r.DB.Save(s).Error
}

// FindActive 同一 (learner, teacher, skill) 的未终结会话
func (r *LearningRepository) FindActive(learnerID, teacherID uint, skillName string) (*model.LearningSession, error) {
	var s model.LearningSession
	err := r.DB.Where("learner_id = ? AND teacher_id = ? AND skill_name = ? AND status IN ?",
		learnerID, teacherID, skillName,
		[]model.SessionStatus{model.SessionPending, model.SessionInProgress}).
		First(&s).Error
	return &s, err
}

// PendingForTeacher 待处理的教学请求
func (r *LearningRepository) PendingForTeacher(teacherID uint) ([]model.LearningSession, error) {
	var ss []model.LearningSession
	err := r.DB.Preload("Learner").Preload("Teacher").
		Where("teacher_id = ? AND status = ?", teacherID, model.SessionPending).
		Order("created_at DESC").
		Find(&ss).Error
	return ss, err
}

// FindByParticipant 用户作为任一方参与的全部会话
func (r *LearningRepository) FindByParticipant(userID uint) ([]model.LearningSession, error) {
	var ss []model.LearningSession
	err := r.DB.Preload("Learner").Preload("Teacher").
		Where("learner_id = ? OR teacher_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&ss).Error
	return ss, err
}

// CompletedSkillNames 按角色统计完成的不同技能名
func (r *LearningRepository) CompletedSkillNames(userID uint, asTeacher bool) ([]string, error) {
	var names []string
	col := "learner_id"
	if asTeacher {
		col = "teacher_id"
	}
	err := r.DB.Model(&model.LearningSession{}).
		Distinct("skill_name").
		Where(col+" = ? AND status = ?", userID, model.SessionCompleted).
		Pluck("skill_name", &names).Error
	return names, err
}

// CompletedByRole 按角色取完成的会话
func (r *LearningRepository) CompletedByRole(userID uint, asTeacher bool) ([]model.LearningSession, error) {
	var ss []model.LearningSession
	col := "learner_id"
	if asTeacher {
		col = "teacher_id"
	}
	err := r.DB.Preload("Learner").Preload("Teacher").
		Where(col+" = ? AND status = ?", userID, model.SessionCompleted).
		Order("updated_at DESC").
		Find(&ss).Error
	return ss, err
}

// AllUserIDs 出现在任何已完成会话中的用户，徽章对账用
func (r *LearningRepository) AllUserIDs() ([]uint, error) {
	var learnerIDs, teacherIDs []uint
	if err := r.DB.Model(&model.LearningSession{}).
		Distinct("learner_id").
		Where("status = ?", model.SessionCompleted).
		Pluck("learner_id", &learnerIDs).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&model.LearningSession{}).
		Distinct("teacher_id").
		Where("status = ?", model.SessionCompleted).
		Pluck("teacher_id", &teacherIDs).Error; err != nil {
		return nil, err
	}
	seen := make(map[uint]bool, len(learnerIDs)+len(teacherIDs))
	var ids []uint
	for _, id := range append(learnerIDs, teacherIDs...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
