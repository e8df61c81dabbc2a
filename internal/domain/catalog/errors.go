package catalog

import "errors"

var (
	// ErrProductNotFound indicates the product is not in the published list
	ErrProductNotFound = errors.New("product not found")
)
