package httpapi

import "github.com/loipv/library-events-producer/libraryevent"

// LibraryEventRequest is the body of POST and PUT /v1/libraryevent.
// libraryEventType is ignored, the route decides it.
type LibraryEventRequest struct {
	LibraryEventID *int         `json:"libraryEventId" validate:"omitempty,min=-2147483648,max=2147483647"`
	Book           *BookRequest `json:"book" validate:"required"`
}

// BookRequest is the book part of a request
type BookRequest struct {
	BookID     *int   `json:"bookId" validate:"required"`
	BookName   string `json:"bookName" validate:"notblank"`
	BookAuthor string `json:"bookAuthor" validate:"notblank"`
}

// toBook must only be called on a validated request
func (r *LibraryEventRequest) toBook() libraryevent.Book {
	return libraryevent.Book{
		BookID:     *r.Book.BookID,
		BookName:   r.Book.BookName,
		BookAuthor: r.Book.BookAuthor,
	}
}
