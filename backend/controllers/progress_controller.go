package controllers

import (
	"errors"
	"project/backend/apperrors"
	"project/backend/cache"
	"project/backend/config"
	"project/backend/dispatch"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/policy"
	"project/backend/utils"
	"project/backend/workflow"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProgressController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Dsp *dispatch.Dispatcher
}

func NewProgressController(db *gorm.DB, cfg *config.Config, dsp *dispatch.Dispatcher) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg, Dsp: dsp}
}

// ListNodes godoc
// @Summary List the course sequence
// @Description Returns the fixed course nodes in order
// @Tags course
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /course/nodes [get]
func (pc *ProgressController) ListNodes(c *fiber.Ctx) error {
	var nodes []models.CourseNode
	if err := pc.DB.Order("\"order\" ASC").Find(&nodes).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, nodes)
}

// GetMyProgress godoc
// @Summary Get own node progress
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /progress [get]
func (pc *ProgressController) GetMyProgress(c *fiber.Ctx) error {
	id := middleware.Identity(c)
	if id == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	return pc.progressFor(c, id.UserID)
}

// GetStudentProgress godoc
// @Summary Get a student's node progress
// @Description Mentor-only; requires direct or team-mediated assignment
// @Tags progress
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /students/{id}/progress [get]
func (pc *ProgressController) GetStudentProgress(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	studentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid student ID")
	}

	type studentView struct {
		Student *models.User
		Target  policy.Target
	}

	res := dispatch.Run(pc.Dsp, id, dispatch.Action[*studentView]{
		Load: func() (*studentView, error) {
			student, err := loadByID[models.User](pc.DB, uint(studentID), "Student not found")
			if err != nil {
				return nil, err
			}
			target, err := studentTarget(pc.DB, student)
			if err != nil {
				return nil, err
			}
			return &studentView{Student: student, Target: target}, nil
		},
		Authorize: func(sv *studentView) (policy.Action, policy.Target) {
			return policy.ActionViewStudent, sv.Target
		},
		Mutate: func(sv *studentView) (any, error) {
			var progress []models.UserNodeProgress
			if err := pc.DB.Where("user_id = ?", sv.Student.ID).Find(&progress).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return progress, nil
		},
	})
	return utils.SendResult(c, res)
}

type UpdateProgressRequest struct {
	Status string `json:"status" enums:"AVAILABLE,IN_PROGRESS,COMPLETED"`
}

// UpdateNodeProgress godoc
// @Summary Update a student's progress on a node
// @Description Mentor-only forward move; completing a node unlocks the next
// @Description node in course order within the same transaction.
// @Tags progress
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param nodeId path int true "Node ID"
// @Param input body UpdateProgressRequest true "New status"
// @Success 200 {object} dispatch.Result
// @Failure 403 {object} dispatch.Result
// @Failure 409 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /students/{id}/progress/{nodeId} [put]
func (pc *ProgressController) UpdateNodeProgress(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	studentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid student ID")
	}
	nodeID, err := strconv.Atoi(c.Params("nodeId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid node ID")
	}

	var input UpdateProgressRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	type studentProgress struct {
		Student  *models.User
		Node     *models.CourseNode
		Progress *models.UserNodeProgress
		Target   policy.Target
	}

	res := dispatch.Run(pc.Dsp, id, dispatch.Action[*studentProgress]{
		Load: func() (*studentProgress, error) {
			student, err := loadByID[models.User](pc.DB, uint(studentID), "Student not found")
			if err != nil {
				return nil, err
			}
			node, err := loadByID[models.CourseNode](pc.DB, uint(nodeID), "Course node not found")
			if err != nil {
				return nil, err
			}
			progress, err := pc.progressRow(student.ID, node)
			if err != nil {
				return nil, err
			}
			target, err := studentTarget(pc.DB, student)
			if err != nil {
				return nil, err
			}
			return &studentProgress{Student: student, Node: node, Progress: progress, Target: target}, nil
		},
		Authorize: func(sp *studentProgress) (policy.Action, policy.Target) {
			return policy.ActionUpdateProgress, sp.Target
		},
		Transition: func(sp *studentProgress) error {
			_, err := workflow.AdvanceProgress(sp.Progress.Status, input.Status)
			return err
		},
		Mutate: func(sp *studentProgress) (any, error) {
			next, err := workflow.AdvanceProgress(sp.Progress.Status, input.Status)
			if err != nil {
				return nil, err
			}
			err = pc.DB.Transaction(func(tx *gorm.DB) error {
				sp.Progress.Status = next
				// A row that was never persisted is written here, after
				// the policy check, not during Load.
				if sp.Progress.ID == 0 {
					if err := tx.Create(sp.Progress).Error; err != nil {
						return err
					}
				} else if err := tx.Model(sp.Progress).Update("status", next).Error; err != nil {
					return err
				}
				if next == models.ProgressCompleted {
					return pc.unlockNext(tx, sp.Student.ID, sp.Node.Order)
				}
				return nil
			})
			if err != nil {
				return nil, apperrors.Store(err)
			}
			return sp.Progress, nil
		},
		StaleViews: func(sp *studentProgress) []string {
			return []string{cache.ViewStudent(sp.Student.ID)}
		},
	})
	return utils.SendResult(c, res)
}

func (pc *ProgressController) progressFor(c *fiber.Ctx, userID uint) error {
	var progress []models.UserNodeProgress
	if err := pc.DB.Where("user_id = ?", userID).Find(&progress).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, progress)
}

// progressRow fetches the (student, node) row. A student the mentor never
// touched has no row yet; the default is returned in memory (zero ID) and
// only persisted once the update is authorized and valid.
func (pc *ProgressController) progressRow(userID uint, node *models.CourseNode) (*models.UserNodeProgress, error) {
	var progress models.UserNodeProgress
	err := pc.DB.Where("user_id = ? AND node_id = ?", userID, node.ID).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Store(err)
	}
	p := defaultProgress(userID, node)
	return &p, nil
}

// defaultProgress is the state a node has before any row exists for it:
// the first node in course order starts AVAILABLE, everything else LOCKED.
func defaultProgress(userID uint, node *models.CourseNode) models.UserNodeProgress {
	status := models.ProgressLocked
	if node.Order == 1 {
		status = models.ProgressAvailable
	}
	return models.UserNodeProgress{UserID: userID, NodeID: node.ID, Status: status}
}

// unlockNext flips the next node in course order to AVAILABLE, if a next
// node exists and is still LOCKED (or untouched).
func (pc *ProgressController) unlockNext(tx *gorm.DB, userID uint, order int) error {
	var next models.CourseNode
	err := tx.Where("\"order\" = ?", order+1).First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var progress models.UserNodeProgress
	err = tx.Where("user_id = ? AND node_id = ?", userID, next.ID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.UserNodeProgress{
			UserID: userID,
			NodeID: next.ID,
			Status: models.ProgressAvailable,
		}).Error
	}
	if err != nil {
		return err
	}
	if progress.Status == models.ProgressLocked {
		return tx.Model(&progress).Update("status", models.ProgressAvailable).Error
	}
	return nil
}
