// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into kind-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), migrations, seeding
//	├── store.go         # Kind-keyed facade used by search and the record API
//	├── students/        # Students and their subject memberships
//	├── subjects/        # Subjects, their students and their reading lists
//	├── books/           # Books and author search
//	├── classrooms/      # Classrooms and location search
//	├── audit/           # Audit event persistence
//	└── dbutil/          # LIKE escaping and join-table rewrites
//
// # Using Sub-packages
//
//	db, err := database.Open(database.Options{Driver: "sqlite", Path: "./university.db"})
//
//	studentsRepo := students.NewRepository(db.DB)
//	student, err := studentsRepo.GetStudentByID(1)
//
//	store := database.NewStore(db.DB)
//	books, err := store.BooksByAuthor("Orwell")
//
// # Memberships
//
// Student↔Subject pairs live in student_subjects and Subject↔Book pairs in
// subject_books. Save operations that carry a membership set replace the
// owner's rows inside the same transaction that writes the owner, so either
// both land or neither does. Deleting a record removes its join rows first.
package database
