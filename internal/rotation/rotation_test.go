package rotation

import (
	"testing"
	"time"

	"studycycle/internal/model"
)

func TestSubjectOfDay_Rotation(t *testing.T) {
	start := model.NewDate(2024, time.January, 1)
	subjects := []string{"Math", "Law", "Portuguese"}

	cases := []struct {
		day  model.Date
		want string
	}{
		{model.NewDate(2024, time.January, 1), "Math"},
		{model.NewDate(2024, time.January, 2), "Law"},
		{model.NewDate(2024, time.January, 3), "Portuguese"},
		{model.NewDate(2024, time.January, 4), "Math"},
		{model.NewDate(2024, time.February, 1), "Law"}, // 31 mod 3 = 1
	}
	for _, tc := range cases {
		got, state := SubjectOfDay(tc.day, start, subjects)
		if state != Active {
			t.Fatalf("%s: expected Active, got %v", tc.day, state)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.day, tc.want, got)
		}
	}
}

func TestSubjectOfDay_PeriodicWithPeriodN(t *testing.T) {
	start := model.NewDate(2023, time.June, 15)
	subjects := []string{"A", "B", "C", "D", "E"}
	n := len(subjects)

	day := start
	for i := 0; i < 400; i++ {
		got, _ := SubjectOfDay(day, start, subjects)
		shifted, _ := SubjectOfDay(day.AddDays(n), start, subjects)
		if got != shifted {
			t.Fatalf("day %s: rotation not periodic with period %d (%q vs %q)", day, n, got, shifted)
		}
		day = day.AddDays(1)
	}
}

func TestSubjectOfDay_NoSubjects(t *testing.T) {
	start := model.NewDate(2024, time.January, 1)
	_, state := SubjectOfDay(model.NewDate(2024, time.March, 1), start, nil)
	if state != NoSubjects {
		t.Fatalf("expected NoSubjects, got %v", state)
	}
}

func TestSubjectOfDay_NotStarted(t *testing.T) {
	start := model.NewDate(2024, time.December, 1)
	_, state := SubjectOfDay(model.NewDate(2024, time.January, 1), start, []string{"Math"})
	if state != NotStarted {
		t.Fatalf("expected NotStarted, got %v", state)
	}
}

func TestSubjectOfDay_StartDayIsIndexZero(t *testing.T) {
	start := model.NewDate(2024, time.May, 10)
	got, state := SubjectOfDay(start, start, []string{"Only"})
	if state != Active || got != "Only" {
		t.Fatalf("expected Only/Active, got %q/%v", got, state)
	}
}
