package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/celian-arc/aim/internal/history"
	"github.com/celian-arc/aim/internal/models"
	"github.com/celian-arc/aim/internal/validation"
	"gorm.io/gorm"
)

type CourseHandler struct {
	DB *gorm.DB
}

func NewCourseHandler(db *gorm.DB) *CourseHandler { return &CourseHandler{DB: db} }

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	var courses []models.Course
	if err := h.DB.Where("active = ?", true).
		Order("day_of_week, start_time").Find(&courses).Error; err != nil {
		serverError(w)
		return
	}
	render(w, r, "courses", map[string]any{"Courses": courses, "DayNames": models.DayNames})
}

func courseFromForm(r *http.Request) (models.Course, validation.Violations) {
	v := validation.Violations{}
	day, _ := strconv.Atoi(r.FormValue("day_of_week"))
	c := models.Course{
		Name:      strings.TrimSpace(r.FormValue("name")),
		DayOfWeek: day,
		StartTime: strings.TrimSpace(r.FormValue("start_time")),
		EndTime:   strings.TrimSpace(r.FormValue("end_time")),
		Level:     r.FormValue("level"),
		Notes:     r.FormValue("notes"),
		Active:    true,
	}
	validation.Required("name", c.Name, v)
	validation.IntRange("day_of_week", c.DayOfWeek, 0, 6, v)
	validation.TimeHHMM("start_time", c.StartTime, v)
	validation.TimeHHMM("end_time", c.EndTime, v)
	if raw := strings.TrimSpace(r.FormValue("max_archers")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			c.MaxArchers = &n
		} else {
			v["max_archers"] = "invalid_value"
		}
	}
	return c, v
}

func (h *CourseHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, r, "add_course", map[string]any{"DayNames": models.DayNames})
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "add_course", map[string]any{"Error": "invalid form", "DayNames": models.DayNames})
		return
	}
	course, v := courseFromForm(r)
	if !v.Empty() {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "add_course", map[string]any{"Errors": v, "Course": course, "DayNames": models.DayNames})
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&course).Error; err != nil {
			return err
		}
		return history.Record(tx, history.CourseCreated{Course: course})
	})
	if err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/courses", statusSeeOther)
}

func (h *CourseHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var course models.Course
	if err := h.DB.First(&course, id).Error; err != nil {
		notFound(w)
		return
	}
	if r.Method == http.MethodGet {
		render(w, r, "edit_course", map[string]any{"Course": course, "DayNames": models.DayNames})
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "edit_course", map[string]any{"Course": course, "Error": "invalid form", "DayNames": models.DayNames})
		return
	}
	updated, v := courseFromForm(r)
	if !v.Empty() {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "edit_course", map[string]any{"Course": course, "Errors": v, "DayNames": models.DayNames})
		return
	}
	course.Name = updated.Name
	course.DayOfWeek = updated.DayOfWeek
	course.StartTime = updated.StartTime
	course.EndTime = updated.EndTime
	course.Level = updated.Level
	course.MaxArchers = updated.MaxArchers
	course.Notes = updated.Notes
	if err := h.DB.Save(&course).Error; err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/courses", statusSeeOther)
}

// Delete soft-deletes the course (active=false) and hard-deletes its
// attendance rows.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var course models.Course
	if err := h.DB.First(&course, id).Error; err != nil {
		notFound(w)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&course).Update("active", false).Error; err != nil {
			return err
		}
		return tx.Where("course_id = ?", id).Delete(&models.Attendance{}).Error
	})
	if err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/courses", statusSeeOther)
}

// Roster shows enrolled archers plus the rest for enrollment.
func (h *CourseHandler) Roster(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var course models.Course
	if err := h.DB.Preload("Archers").First(&course, id).Error; err != nil {
		notFound(w)
		return
	}
	var all []models.Archer
	_ = h.DB.Order("last_name, first_name").Find(&all).Error
	enrolled := make(map[uint]bool, len(course.Archers))
	for _, a := range course.Archers {
		enrolled[a.ID] = true
	}
	render(w, r, "course_archers", map[string]any{
		"Course":     course,
		"AllArchers": all,
		"Enrolled":   enrolled,
	})
}

// AddArcher enrolls an archer; adding twice is a no-op.
func (h *CourseHandler) AddArcher(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	archerID, ok := pathID(r, "archer_id")
	if !ok {
		notFound(w)
		return
	}
	var course models.Course
	if err := h.DB.Preload("Archers").First(&course, courseID).Error; err != nil {
		notFound(w)
		return
	}
	var archer models.Archer
	if err := h.DB.First(&archer, archerID).Error; err != nil {
		notFound(w)
		return
	}
	for _, a := range course.Archers {
		if a.ID == archer.ID {
			http.Redirect(w, r, "/course/"+r.PathValue("id")+"/archers", statusSeeOther)
			return
		}
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&course).Association("Archers").Append(&archer); err != nil {
			return err
		}
		return history.Record(tx, history.ArcherAddedToCourse{
			CourseID:   course.ID,
			CourseName: course.Name,
			ArcherName: archer.Name(),
		})
	})
	if err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/course/"+r.PathValue("id")+"/archers", statusSeeOther)
}

func (h *CourseHandler) RemoveArcher(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	archerID, ok := pathID(r, "archer_id")
	if !ok {
		notFound(w)
		return
	}
	var course models.Course
	if err := h.DB.First(&course, courseID).Error; err != nil {
		notFound(w)
		return
	}
	var archer models.Archer
	if err := h.DB.First(&archer, archerID).Error; err != nil {
		notFound(w)
		return
	}
	if err := h.DB.Model(&course).Association("Archers").Delete(&archer); err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/course/"+r.PathValue("id")+"/archers", statusSeeOther)
}

// Attendance shows the records of the next 30 days.
func (h *CourseHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var course models.Course
	if err := h.DB.Preload("Archers").First(&course, id).Error; err != nil {
		notFound(w)
		return
	}
	today := time.Now().Truncate(24 * time.Hour)
	end := today.AddDate(0, 0, 30)
	var records []models.Attendance
	_ = h.DB.Preload("Archer").
		Where("course_id = ? AND date >= ? AND date <= ?", id, today, end).
		Order("date DESC").Find(&records).Error
	render(w, r, "course_attendance", map[string]any{
		"Course":  course,
		"Records": records,
		"Today":   today,
	})
}

// MarkAttendance upserts one attendance row per enrolled archer for
// the submitted date: the second marking for the same (archer, course,
// date) updates the present flag instead of inserting a new row.
func (h *CourseHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var course models.Course
	if err := h.DB.Preload("Archers").First(&course, id).Error; err != nil {
		notFound(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	dateObj, err := time.Parse("2006-01-02", r.FormValue("date"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		for _, archer := range course.Archers {
			present := r.Form.Has("archer_" + strconv.FormatUint(uint64(archer.ID), 10))
			var existing models.Attendance
			err := tx.Where("archer_id = ? AND course_id = ? AND date = ?",
				archer.ID, course.ID, dateObj).First(&existing).Error
			switch {
			case err == nil:
				if err := tx.Model(&existing).Update("present", present).Error; err != nil {
					return err
				}
			case err == gorm.ErrRecordNotFound:
				record := models.Attendance{
					ArcherID:   archer.ID,
					CourseID:   course.ID,
					Date:       dateObj,
					Present:    present,
					RecordedAt: time.Now(),
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/course/"+r.PathValue("id")+"/attendance", statusSeeOther)
}
