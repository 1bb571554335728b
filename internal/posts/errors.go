package posts

import "fmt"

// ContentFetchError reports that the posts could not be fetched from the content
// source or that its response could not be mapped to posts.
type ContentFetchError struct {
	Op  string
	Err error
}

func (e *ContentFetchError) Error() string {
	return fmt.Sprintf("content fetch: %s: %v", e.Op, e.Err)
}

func (e *ContentFetchError) Unwrap() error {
	return e.Err
}
