// Package editor keeps the add and edit sessions for the four record kinds.
//
// A session owns a working copy of one record. The Student editor manages
// the student's subjects, and the Subject editor manages the subject's
// students and books. Both use association.Synchronizer. Book and
// Classroom editors only carry scalar fields.
//
// # Usage
//
//	ed := editor.New(editor.Stores{...}, validation.NewEngine(nil))
//	view, ok, err := ed.Open(entities.KindStudent, 1)
//	view, err = ed.Assign(view.ID, editor.RelationSubjects, 3)
//	result, err := ed.Save(view.ID)
//	// result.Message == "Data Updated"
//
// Save runs the validation engine first and never reaches the store when a
// field is incomplete. Scalar fields and memberships are written in one
// transaction. A failed save leaves the session as it was so it can be
// retried.
package editor
