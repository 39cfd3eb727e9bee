package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrSuperseded     = errors.New("request superseded by a reset")
	ErrBusy           = errors.New("another request is in progress")
	ErrNoImage        = errors.New("no image to edit")
	ErrNoHistory      = errors.New("outfit history is empty")
	ErrNoSourceImage  = errors.New("no valid base image for pose change")
	ErrInvalidPose    = errors.New("invalid pose index")
	ErrInvalidDataURL = errors.New("invalid data url")
)
