package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/university/internal/entities"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects the backing store. Path is used by sqlite, DSN by postgres.
type Options struct {
	Driver   string
	Path     string
	DSN      string
	LogLevel logger.LogLevel
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a sqlite database at dbPath and migrates the schema.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(Options{Driver: DriverSQLite, Path: dbPath, LogLevel: logger.Warn})
}

// Open connects to the configured store and migrates the schema.
func Open(opts Options) (*Database, error) {
	var dialector gorm.Dialector
	var target string
	switch opts.Driver {
	case "", DriverSQLite:
		dialector = sqlite.Open(opts.Path)
		target = opts.Path
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres driver requires a DSN")
		}
		dialector = postgres.Open(opts.DSN)
		target = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", target)

	return &Database{DB: db}, nil
}

// Migrate creates or updates every table, including the membership join tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.Student{},
		&entities.Subject{},
		&entities.Book{},
		&entities.Classroom{},
		&entities.AuditEvent{},
	)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Seed inserts the initial records when the store holds no students.
// It reports whether anything was inserted.
func (d *Database) Seed() (bool, error) {
	var count int64
	if err := d.DB.Model(&entities.Student{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		students := seedStudents()
		subjects := seedSubjects()
		books := seedBooks()
		classrooms := seedClassrooms()

		if err := tx.Create(&students).Error; err != nil {
			return fmt.Errorf("seed students: %w", err)
		}
		if err := tx.Create(&subjects).Error; err != nil {
			return fmt.Errorf("seed subjects: %w", err)
		}
		if err := tx.Create(&books).Error; err != nil {
			return fmt.Errorf("seed books: %w", err)
		}
		if err := tx.Create(&classrooms).Error; err != nil {
			return fmt.Errorf("seed classrooms: %w", err)
		}

		// Wienczysław attends Matematyka and Biologia; Matematyka lists Tratrata.
		if err := tx.Model(&students[0]).Association("Subjects").Append(&subjects[0], &subjects[1]); err != nil {
			return fmt.Errorf("seed memberships: %w", err)
		}
		if err := tx.Model(&subjects[0]).Association("Books").Append(&books[0]); err != nil {
			return fmt.Errorf("seed reading list: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	log.Printf("Seeded initial university records")
	return true, nil
}

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func seedStudents() []entities.Student {
	return []entities.Student{
		{
			Name: "Wienczysław", LastName: "Nowakowicz", PESEL: "87052201238",
			BirthDate: date(1987, time.May, 22), Gender: "Male",
			PlaceOfBirth: "Warsaw", PlaceOfResidence: "Warsaw",
			AddressLine1: "123 Main St", AddressLine2: "Apt 4B", PostalCode: "80-001",
		},
		{
			Name: "Stanislaw", LastName: "Nowakowicz", PESEL: "19262503123",
			BirthDate: date(2019, time.June, 25), Gender: "Male",
			PlaceOfBirth: "Krakow", PlaceOfResidence: "Gdansk",
			AddressLine1: "456 Elm St", AddressLine2: "Suite 1A", PostalCode: "80-002",
		},
		{
			Name: "Eugenia", LastName: "Nowakowicz", PESEL: "21260804120",
			BirthDate: date(2021, time.June, 8), Gender: "Female",
			PlaceOfBirth: "Gdansk", PlaceOfResidence: "Warsaw",
			AddressLine1: "789 Oak St", AddressLine2: "Unit 5C", PostalCode: "80-003",
		},
	}
}

func seedSubjects() []entities.Subject {
	return []entities.Subject{
		{Name: "Matematyka", Semester: "1", Lecturer: "Michalina Warszawa"},
		{Name: "Biologia", Semester: "2", Lecturer: "Halina Katowice"},
		{Name: "Chemia", Semester: "3", Lecturer: "Jan Nowak"},
	}
}

func seedBooks() []entities.Book {
	return []entities.Book{
		{
			Title: "Tratrata", Author: "Orwell", Publisher: "Dududu",
			PublicationDate: date(2012, time.December, 12), ISBN: "1231132",
			Genre: "fantasy", Description: "Blablabla", Language: "English", PageCount: 123,
		},
	}
}

func seedClassrooms() []entities.Classroom {
	return []entities.Classroom{
		{
			Location: "Building A, Room 101", Capacity: 30, AvailableSeats: 30,
			Projector: true, Whiteboard: true, Microphone: false,
			Description: "Standard classroom with projector and whiteboard",
		},
	}
}
