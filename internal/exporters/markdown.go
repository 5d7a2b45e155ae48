package exporters

import (
	"fmt"
	"strings"
)

// GenerateMarkdown renders a human-readable registry with a frontmatter
// header, one section per record kind and the memberships under each subject.
func GenerateMarkdown(snap *Snapshot) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "content_type: university_snapshot\n")
	fmt.Fprintf(&builder, "generated_at: %s\n", snap.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&builder, "students: %d\n", len(snap.Students))
	fmt.Fprintf(&builder, "subjects: %d\n", len(snap.Subjects))
	fmt.Fprintf(&builder, "books: %d\n", len(snap.Books))
	fmt.Fprintf(&builder, "classrooms: %d\n", len(snap.Classrooms))
	fmt.Fprintf(&builder, "---\n\n")

	studentNames := make(map[uint]string, len(snap.Students))
	fmt.Fprintf(&builder, "## Students\n\n")
	for _, s := range snap.Students {
		name := s.Name + " " + s.LastName
		studentNames[s.ID] = name
		fmt.Fprintf(&builder, "- **%s** (PESEL %s), %s\n", name, s.PESEL, s.PlaceOfResidence)
	}

	bookTitles := make(map[uint]string, len(snap.Books))
	for _, b := range snap.Books {
		bookTitles[b.ID] = b.Title
	}

	fmt.Fprintf(&builder, "\n## Subjects\n\n")
	for _, s := range snap.Subjects {
		fmt.Fprintf(&builder, "### %s\n\n", s.Name)
		if s.Lecturer != "" || s.Semester != "" {
			fmt.Fprintf(&builder, "Lecturer: %s, semester: %s\n\n", s.Lecturer, s.Semester)
		}
		for _, id := range s.StudentIDs {
			fmt.Fprintf(&builder, "- student: %s\n", studentNames[id])
		}
		for _, id := range s.BookIDs {
			fmt.Fprintf(&builder, "- book: %s\n", bookTitles[id])
		}
		builder.WriteString("\n")
	}

	fmt.Fprintf(&builder, "## Books\n\n")
	for _, b := range snap.Books {
		fmt.Fprintf(&builder, "- **%s** by %s", b.Title, b.Author)
		if b.PublicationDate != "" {
			fmt.Fprintf(&builder, " (%s)", b.PublicationDate)
		}
		builder.WriteString("\n")
	}

	fmt.Fprintf(&builder, "\n## Classrooms\n\n")
	for _, c := range snap.Classrooms {
		fmt.Fprintf(&builder, "- **%s**: %d/%d seats available\n", c.Location, c.AvailableSeats, c.Capacity)
	}

	return builder.String()
}
