package tools

import (
	"math/rand"
	"time"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const hexCharset = "0123456789abcdef"

var seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))

func RandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[seededRand.Intn(len(charset))]
	}
	return string(b)
}

// RandomHex returns a lowercase hex string. Used for public node ids, so
// they look like the short uuid prefixes the dashboard users are used to.
func RandomHex(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = hexCharset[seededRand.Intn(len(hexCharset))]
	}
	return string(b)
}
