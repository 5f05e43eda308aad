package lib

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPageSize is used when an account does not set page-size.
const DefaultPageSize = 100

// EncodeToken builds the continuation token of the page of folder starting
// at offset.
func EncodeToken(folder string, offset int) string {
	return strconv.Itoa(offset) + ":" + folder
}

// DecodeToken is the inverse of EncodeToken.
func DecodeToken(token string) (folder string, offset int, err error) {
	off, folder, ok := strings.Cut(token, ":")
	if !ok {
		return "", 0, fmt.Errorf("malformed page token %q", token)
	}
	offset, err = strconv.Atoi(off)
	if err != nil || offset < 0 {
		return "", 0, fmt.Errorf("malformed page token %q", token)
	}
	return folder, offset, nil
}

// PageBounds returns the slice bounds of the page of n items starting at
// offset, and the token of the next page or "" if it is the last.
func PageBounds(folder string, n, offset, size int) (start, end int, next string) {
	if size <= 0 {
		size = DefaultPageSize
	}
	start = offset
	if start > n {
		start = n
	}
	end = start + size
	if end >= n {
		return start, n, ""
	}
	return start, end, EncodeToken(folder, end)
}
