// Package pagesource turns source documents into page images, one page at a
// time. Single images yield one page; scanned PDFs yield the raster image of
// each page in order.
package pagesource

import "image"

// Page is one page image. Index is zero based.
type Page struct {
	Index int
	Image image.Image
}

// Source produces pages lazily. Next returns io.EOF once the document is
// exhausted. When a single page cannot be rendered Next returns that page
// with a nil Image together with the error, and the following call moves on
// to the next page. Sources are not restartable; open a new one instead.
type Source interface {
	Next() (*Page, error)
	Close() error
}
