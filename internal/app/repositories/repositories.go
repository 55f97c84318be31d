package repositories

import (
	"github.com/qlgl/catechism-backend/internal/db"
)

// Repositories holds all repository instances sharing one connection pool.
type Repositories struct {
	Users     *UserRepository
	Parishes  *ParishRepository
	Students  *StudentRepository
	Classes   *ClassRepository
	Sessions  *SessionRepository
	Grades    *GradeRepository
	Schedules *ScheduleRepository
}

// NewRepositories creates all repositories over the given database handle.
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(database.Pool),
		Parishes:  NewParishRepository(database.Pool),
		Students:  NewStudentRepository(database),
		Classes:   NewClassRepository(database),
		Sessions:  NewSessionRepository(database),
		Grades:    NewGradeRepository(database),
		Schedules: NewScheduleRepository(database.Pool),
	}
}
