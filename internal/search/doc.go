// Package search answers the four relationship-shaped queries over the
// university records and forwards edit and delete requests on result rows.
//
// # Query shapes
//
//	Kind        Prompt                            Traversal
//	students    who attends                       subjects by exact name -> their students
//	subjects    attended by Student with PESEL    student by exact PESEL -> its subjects
//	books       written by Author                 books whose author contains the condition
//	classrooms  located in Building               classrooms whose location contains the condition
//
// # Usage
//
//	d := search.NewDispatcher(store, search.ConfirmFunc(askUser))
//	prompt := d.Select(entities.KindBook)
//	d.SetCondition("Orwell")
//	if err := d.Run(); err != nil { ... }
//	books := d.Results().Books
//
//	nav, ok := d.Edit(books[0].ID)        // hand nav to the editor shell
//	outcome, err := d.Delete(books[0].ID) // asks the Confirmer first
//
// Only the collection of the selected kind is ever populated. Selecting a
// kind or running a search replaces it and clears the other three.
package search
