package utils

import "strings"

// ShortSHA abbreviates a revision to the usual 7 characters.
func ShortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// ImageTag extracts the tag from a container image reference. A reference
// without a tag is "latest". The colon in a registry host:port must not be
// mistaken for the tag separator.
func ImageTag(image string) string {
	idx := strings.LastIndex(image, ":")
	if idx < 0 || strings.Contains(image[idx:], "/") {
		return "latest"
	}
	return image[idx+1:]
}
