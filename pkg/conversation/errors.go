package conversation

import (
	"github.com/pkg/errors"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrNoTemplateBound  = errors.New("no template bound")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidArgument  = errors.New("invalid argument")
)
