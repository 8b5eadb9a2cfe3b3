package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/celian-arc/aim/internal/models"
)

func seedCourse(t *testing.T) (*CourseHandler, models.Course, models.Archer) {
	t.Helper()
	conn := setupHandlerDB(t)
	h := NewCourseHandler(conn)
	course := models.Course{Name: "Débutants", DayOfWeek: 2, StartTime: "18:00", EndTime: "19:30", Active: true}
	if err := conn.Create(&course).Error; err != nil {
		t.Fatal(err)
	}
	archer := models.Archer{FirstName: "Léa", LastName: "Martin", LicenseNumber: "123456A"}
	if err := conn.Create(&archer).Error; err != nil {
		t.Fatal(err)
	}
	if err := conn.Model(&course).Association("Archers").Append(&archer); err != nil {
		t.Fatal(err)
	}
	return h, course, archer
}

func TestCourseAddValidatesTimes(t *testing.T) {
	conn := setupHandlerDB(t)
	h := NewCourseHandler(conn)

	form := url.Values{
		"name": {"Débutants"}, "day_of_week": {"2"},
		"start_time": {"25:00"}, "end_time": {"19:30"},
	}
	rr := httptest.NewRecorder()
	h.Add(rr, postForm("/add_course", form, nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid start time should be rejected, got %d", rr.Code)
	}

	form.Set("start_time", "18:00")
	rr = httptest.NewRecorder()
	h.Add(rr, postForm("/add_course", form, nil))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", rr.Code)
	}
	var ev models.HistoryEvent
	if err := conn.Where("event_type = ?", "course_created").First(&ev).Error; err != nil {
		t.Fatalf("history row missing: %v", err)
	}
	if ev.Summary != "Cours créé: Débutants - Mercredi 18:00-19:30" {
		t.Errorf("unexpected summary %q", ev.Summary)
	}
}

func TestCourseDeleteSoftDeletesAndDropsAttendance(t *testing.T) {
	h, course, archer := seedCourse(t)
	att := models.Attendance{ArcherID: archer.ID, CourseID: course.ID, Date: time.Now(), Present: true, RecordedAt: time.Now()}
	if err := h.DB.Create(&att).Error; err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	h.Delete(rr, postForm("/delete_course/1", nil, map[string]string{"id": itoa(course.ID)}))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", rr.Code)
	}

	var reloaded models.Course
	if err := h.DB.First(&reloaded, course.ID).Error; err != nil {
		t.Fatalf("course row must survive: %v", err)
	}
	if reloaded.Active {
		t.Error("course should be inactive")
	}
	var count int64
	h.DB.Model(&models.Attendance{}).Where("course_id = ?", course.ID).Count(&count)
	if count != 0 {
		t.Error("attendance rows should be hard-deleted")
	}
}

func TestAddArcherIsIdempotent(t *testing.T) {
	h, course, archer := seedCourse(t)
	pv := map[string]string{"id": itoa(course.ID), "archer_id": itoa(archer.ID)}

	rr := httptest.NewRecorder()
	h.AddArcher(rr, postForm("/course/1/add_archer/1", nil, pv))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", rr.Code)
	}

	var reloaded models.Course
	if err := h.DB.Preload("Archers").First(&reloaded, course.ID).Error; err != nil {
		t.Fatal(err)
	}
	if len(reloaded.Archers) != 1 {
		t.Fatalf("re-enrolling must not duplicate, got %d", len(reloaded.Archers))
	}
	// Already enrolled in seedCourse, so the no-op path logs nothing.
	var count int64
	h.DB.Model(&models.HistoryEvent{}).Where("event_type = ?", "archer_added_to_course").Count(&count)
	if count != 0 {
		t.Errorf("no-op enrollment should not be audited, count=%d", count)
	}
}

func TestMarkAttendanceUpserts(t *testing.T) {
	h, course, archer := seedCourse(t)
	pv := map[string]string{"id": itoa(course.ID)}
	date := "2026-09-02"

	// First marking: present.
	form := url.Values{"date": {date}, "archer_" + itoa(archer.ID): {"on"}}
	rr := httptest.NewRecorder()
	h.MarkAttendance(rr, postForm("/course/1/mark_attendance", form, pv))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", rr.Code)
	}

	// Second marking for the same date: absent. Must update, not insert.
	form = url.Values{"date": {date}}
	rr = httptest.NewRecorder()
	h.MarkAttendance(rr, postForm("/course/1/mark_attendance", form, pv))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", rr.Code)
	}

	var records []models.Attendance
	if err := h.DB.Where("course_id = ?", course.ID).Find(&records).Error; err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected a single row per (archer, course, date), got %d", len(records))
	}
	if records[0].Present {
		t.Error("second marking should have flipped present to false")
	}
}

func TestMarkAttendanceRejectsBadDate(t *testing.T) {
	h, course, _ := seedCourse(t)
	form := url.Values{"date": {"02/09/2026"}}
	rr := httptest.NewRecorder()
	h.MarkAttendance(rr, postForm("/course/1/mark_attendance", form, map[string]string{"id": itoa(course.ID)}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}
