package service

import (
	"context"
	"encoding/json"
	"fmt"
	"serenestudy_backend/internal/model"
	"serenestudy_backend/internal/repository"
	"serenestudy_backend/internal/util"
	"serenestudy_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SyllabusFile 随计划生成请求内联提交的附件
type SyllabusFile struct {
	Name string `json:"name"`
	Data string `json:"data"` // base64
	Type string `json:"type"`
}

// PlanRequest 一次计划生成请求：入学引导数据加可选的大纲附件
type PlanRequest struct {
	Mode          model.StudyMode `json:"mode" binding:"required"`
	Level         string          `json:"level"`
	Syllabus      string          `json:"syllabus"`
	Skill         string          `json:"skill"`
	SkillDuration string          `json:"skillDuration"`
	ExamDate      string          `json:"examDate"`
	HoursPerDay   float64         `json:"hoursPerDay"`
	PlanType      model.PlanType  `json:"planType"`
	LearningStyle string          `json:"learningStyle"`
	SyllabusFiles []SyllabusFile  `json:"syllabusFiles"`
}

// PlanService 负责计划生成、当前计划解析与复习任务合并
type PlanService struct {
	OnboardingRepo *repository.OnboardingRepository
	TaskRepo       *repository.StudyTaskRepository
	AIClient       AIClient
	Now            func() time.Time
}

func NewPlanService(onboardingRepo *repository.OnboardingRepository, taskRepo *repository.StudyTaskRepository, aiClient AIClient) *PlanService {
	return &PlanService{
		OnboardingRepo: onboardingRepo,
		TaskRepo:       taskRepo,
		AIClient:       aiClient,
		Now:            time.Now,
	}
}

// GeneratePlan 将一次入学引导提交转为已持久化的任务计划。
// 生成是全有或全无的：模型调用、解析或校验任一环节失败时不落任何数据。
func (s *PlanService) GeneratePlan(ctx context.Context, userID uint, req *PlanRequest) (*model.OnboardingProfile, []*model.StudyTask, error) {
	if req.HoursPerDay <= 0 {
		req.HoursPerDay = 4
	}

	parts := s.buildPlanPrompt(req)

	raw, err := s.AIClient.GenerateJSON(ctx, "Plan Generation Error", parts, ShapeArray)
	if err != nil {
		return nil, nil, err
	}

	var generated []GeneratedTask
	if err := json.Unmarshal(raw, &generated); err != nil {
		aiErr := &util.AIError{Err: fmt.Errorf("%w: %v", util.ErrMalformedResponse, err)}
		logger.LogAIFailure("Plan Generation Error", aiErr)
		return nil, nil, aiErr
	}

	// 空数组与缺字段同模型调用失败一样写入持久化错误日志
	if err := validateGeneratedTasks(generated); err != nil {
		logger.LogAIFailure("Plan Generation Error", err)
		return nil, nil, err
	}

	tasks := toStudyTasks(generated)
	if err := s.TaskRepo.InsertMany(userID, tasks); err != nil {
		return nil, nil, err
	}

	profile := req.toProfile(userID)
	if err := s.OnboardingRepo.Create(profile); err != nil {
		// 任务已写入但计划档案写入失败：留下孤儿任务，不回滚，只告警
		logger.Log.Warn("Profile save failed after tasks were persisted, tasks are orphaned",
			zap.Uint("userID", userID),
			zap.Int("orphanedTasks", len(tasks)),
			zap.Error(err))
		return nil, nil, err
	}

	logger.Log.Info("Study plan generated",
		zap.Uint("userID", userID),
		zap.Int("tasks", len(tasks)))
	return profile, tasks, nil
}

// ActivePlan 解析用户的当前计划：最近一次提交的引导档案，加上按主题模糊
// 匹配到它的任务子集。每次读取都重新计算，不做缓存。
func (s *PlanService) ActivePlan(userID uint) (*model.OnboardingProfile, []*model.StudyTask, error) {
	profiles, err := s.OnboardingRepo.FindByUserID(userID)
	if err != nil {
		return nil, nil, err
	}
	if len(profiles) == 0 {
		return nil, []*model.StudyTask{}, nil
	}

	latest := profiles[0]
	allTasks, err := s.TaskRepo.FindByUserID(userID)
	if err != nil {
		return nil, nil, err
	}

	candidates := CandidateSubjects(latest)
	planTasks := make([]*model.StudyTask, 0, len(allTasks))
	for _, task := range allTasks {
		if SubjectMatches(task.Subject, candidates) {
			planTasks = append(planTasks, task)
		}
	}

	logger.Log.Info("Active plan resolved",
		zap.Uint("userID", userID),
		zap.Int("tasks", len(planTasks)))
	return latest, planTasks, nil
}

// MergeRevisionTasks 将测验评估产出的复习任务持久化并返回带 ID 的记录。
// 不去重：重复的评估周期可能产生重叠的复习任务。
func (s *PlanService) MergeRevisionTasks(userID uint, tasks []*model.StudyTask) ([]*model.StudyTask, error) {
	if len(tasks) == 0 {
		return []*model.StudyTask{}, nil
	}
	if err := s.TaskRepo.InsertMany(userID, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SaveTasks 客户端直接提交的批量任务保存
func (s *PlanService) SaveTasks(userID uint, tasks []*model.StudyTask) ([]*model.StudyTask, error) {
	if err := s.TaskRepo.InsertMany(userID, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SubmitOnboarding 仅保存一条引导档案，不触发计划生成。档案历史只追加。
func (s *PlanService) SubmitOnboarding(userID uint, req *PlanRequest) (*model.OnboardingProfile, error) {
	profile := req.toProfile(userID)
	if err := s.OnboardingRepo.Create(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// OnboardingHistory 返回用户全部引导档案，最新在前
func (s *PlanService) OnboardingHistory(userID uint) ([]*model.OnboardingProfile, error) {
	return s.OnboardingRepo.FindByUserID(userID)
}

// CandidateSubjects 从档案的 level/skill 提取小写候选主题集合
func CandidateSubjects(profile *model.OnboardingProfile) []string {
	candidates := make([]string, 0, 2)
	for _, s := range []string{profile.Level, profile.Skill} {
		if s != "" {
			candidates = append(candidates, strings.ToLower(s))
		}
	}
	return candidates
}

// SubjectMatches 判断任务主题是否属于候选集合：不区分大小写的双向子串匹配，
// 容忍模型回显主题时的措辞漂移
func SubjectMatches(subject string, candidates []string) bool {
	if subject == "" {
		return false
	}
	taskSubject := strings.ToLower(subject)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if strings.Contains(taskSubject, candidate) || strings.Contains(candidate, taskSubject) {
			return true
		}
	}
	return false
}

func (r *PlanRequest) toProfile(userID uint) *model.OnboardingProfile {
	rawData, _ := json.Marshal(r)
	return &model.OnboardingProfile{
		UserID:        userID,
		Mode:          r.Mode,
		Level:         r.Level,
		Syllabus:      r.Syllabus,
		Skill:         r.Skill,
		SkillDuration: r.SkillDuration,
		ExamDate:      r.ExamDate,
		HoursPerDay:   r.HoursPerDay,
		PlanType:      r.PlanType,
		LearningStyle: r.LearningStyle,
		RawData:       rawData,
	}
}

func (s *PlanService) buildPlanPrompt(req *PlanRequest) []AIPart {
	today := s.Now().Format(util.DateFormat)

	systemPrompt := fmt.Sprintf(`You are a study planning intelligence for a student exam preparation application.
Your task is to transform exam preparation inputs into a structured daily study plan.

TODAY'S DATE: %s (Use this as the starting point for the plan)

--------------------------------
PLANNING LOGIC (STRICT)
--------------------------------
1. Syllabus Breakdown: Break the syllabus into main topics and then clear subtopics. Ensure no subtopic is skipped.
2. Time Allocation (%s Mode):
   - Daily hours: %g hrs/day.
   - Split daily time into: 70%% new learning, 30%% revision.
   - Ensure earlier topics are revised multiple times before exam.
3. Daily Session Generation: Assign subtopics to specific days (YYYY-MM-DD). Start from today. Each day must have study sessions.
4. Exam Proximity Rule: As exam date (%s) approaches, reduce new topics and increase revision. If the exam is very soon (e.g. 3 days away), focus heavily on high-yield revision and practice.

--------------------------------
OUTPUT FORMAT (JSON ARRAY)
--------------------------------
Return EXACTLY a JSON array of session objects.
Each object must have:
- subject: string (MUST match input "%s" or "%s" exactly)
- topic: string
- subtopic: string
- duration: string (e.g., "45 mins")
- date: string (YYYY-MM-DD)
- sessionType: string (e.g. "Core Learning", "Practice", "Active Revision", "Weak Area Focus")
- aiExplanation: string (Brief reasoning why this session is important for the exam on %s)
- status: "pending"

DO NOT include any Markdown formatting or keys like "tasks" or "plan". Just the array.`,
		today, req.PlanType, req.HoursPerDay, req.ExamDate, req.Level, req.Skill, req.ExamDate)

	var userPrompt string
	if req.Mode == model.ModeExam {
		userPrompt = fmt.Sprintf(`Today is %s. Subject: %s. Total Syllabus: %s. Exam Date: %s. Daily Hours: %g.
Plan tasks from today until %s. Focus on meaningful progression.`,
			today, req.Level, req.Syllabus, req.ExamDate, req.HoursPerDay, req.ExamDate)
	} else {
		userPrompt = fmt.Sprintf(`Today is %s. Skill: %s. Target Duration: %s. Level: %s. Daily commitment: %g hours.
Plan starting from today.`,
			today, req.Skill, req.SkillDuration, req.Level, req.HoursPerDay)
	}

	parts := []AIPart{{Text: systemPrompt + "\n\nINPUT:\n" + userPrompt}}

	// 附件作为内联内容传给模型，并要求以附件内容为准拆分主题
	if len(req.SyllabusFiles) > 0 {
		files := req.SyllabusFiles
		if len(files) > util.MaxSyllabusDocuments {
			files = files[:util.MaxSyllabusDocuments]
		}
		for _, file := range files {
			if file.Data == "" || file.Type == "" {
				continue
			}
			parts = append(parts, AIPart{InlineData: &AIInlineData{
				Data:     file.Data,
				MimeType: file.Type,
			}})
		}
		parts = append(parts, AIPart{Text: "\nPlease use the provided syllabus files above to structure the topics and subtopics accurately."})
	}

	return parts
}
