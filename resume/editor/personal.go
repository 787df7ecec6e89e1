package editor

import (
	"fmt"
	"strings"

	"resume-builder/resume/model"
)

// SetProfileImage stores an encoded image. Only image data URLs are accepted.
func SetProfileImage(doc model.Document, dataURL string) (model.Document, error) {
	dataURL = strings.TrimSpace(dataURL)
	if !strings.HasPrefix(dataURL, "data:image/") {
		return doc, fmt.Errorf("%w: profile image must be an image data URL", ErrInvalidInput)
	}
	info := doc.PersonalInfo
	info.ProfileImage = dataURL
	return doc.WithPersonalInfo(info), nil
}

// RemoveProfileImage clears the profile image.
func RemoveProfileImage(doc model.Document) model.Document {
	info := doc.PersonalInfo
	info.ProfileImage = ""
	return doc.WithPersonalInfo(info)
}
