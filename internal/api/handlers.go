package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/planner"
	"github.com/julianstephens/focusplan/internal/storage"
)

type Handler struct {
	store   storage.Provider
	planner *planner.Service
	newID   func() string
}

func NewHandler(store storage.Provider, svc *planner.Service) *Handler {
	return &Handler{
		store:   store,
		planner: svc,
		newID:   uuid.NewString,
	}
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	cat := req.toCategory(h.newID())
	if err := h.store.AddCategory(cat); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.store.GetAllCategories()
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(cats))
}

func (h *Handler) bindAppointment(c *gin.Context, id string) (models.Appointment, bool) {
	var req AppointmentCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return models.Appointment{}, false
	}
	appt, err := req.toAppointment(id)
	if err != nil {
		respondErr(c, err)
		return models.Appointment{}, false
	}
	if appt.CategoryID != "" {
		if _, err := h.store.GetCategory(appt.CategoryID); err != nil {
			respondErr(c, err)
			return models.Appointment{}, false
		}
	}
	return appt, true
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	appt, ok := h.bindAppointment(c, h.newID())
	if !ok {
		return
	}
	if err := h.store.AddAppointment(appt); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appts, err := h.store.GetAllAppointments()
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(appts))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	appt, ok := h.bindAppointment(c, c.Param("id"))
	if !ok {
		return
	}
	if err := h.store.UpdateAppointment(appt); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	if err := h.store.DeleteAppointment(c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.store.GetAllTasks()
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(tasks))
}

func (h *Handler) taskDetail(id string) (TaskDetail, error) {
	task, err := h.store.GetTask(id)
	if err != nil {
		return TaskDetail{}, err
	}
	sessions, err := h.store.GetFocusSessions(id)
	if err != nil {
		return TaskDetail{}, err
	}
	subtasks, err := h.store.GetSubtasks(id)
	if err != nil {
		return TaskDetail{}, err
	}
	return TaskDetail{Task: task, FocusSessions: nonNil(sessions), Subtasks: nonNil(subtasks)}, nil
}

func (h *Handler) GetTask(c *gin.Context) {
	detail, err := h.taskDetail(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// PlanTask schedules a new task. ?dry_run=true returns the plan unsaved.
func (h *Handler) PlanTask(c *gin.Context) {
	var req PlanTaskCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	item, err := req.workItem()
	if err != nil {
		respondErr(c, err)
		return
	}
	dryRun, _ := strconv.ParseBool(c.Query("dry_run"))

	result, err := h.planner.PlanTask(c.Request.Context(), planner.Request{
		Item:      item,
		Overrides: req.overrides(),
		DryRun:    dryRun,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	status := http.StatusCreated
	if dryRun {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

func (h *Handler) CompleteFocusSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.CompleteFocusSession(id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "completed": true})
}

func (h *Handler) CompleteSubtask(c *gin.Context) {
	task, err := h.store.CompleteSubtask(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.store.GetStats()
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// nonNil keeps empty lists rendering as [] rather than null.
func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
