package model

import "time"

type Post struct {
	ID         int64     `json:"id"`
	AuthorID   int64     `json:"author_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	AuthorName string    `json:"author_name,omitempty"`
}

type Review struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"student_id"`
	ProfessorID int64     `json:"professor_id"`
	Rating      int       `json:"rating"` // 1..5
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
	StudentName string    `json:"student_name,omitempty"`
}

type Progress struct {
	StudentID    int64 `json:"student_id"`
	Level        int   `json:"level"`
	Streak       int   `json:"streak"`
	MinutesTotal int   `json:"minutes_total"`
}

// ProfileLists are the multi-valued profile fields kept in side tables and
// replaced wholesale on update.
type ProfileLists struct {
	Languages      []string `json:"languages"`
	Specialties    []string `json:"specialties"`
	Certifications []string `json:"certifications"`
	Interests      []string `json:"interests"`
}
