package builders

import (
	"fmt"

	"github.com/ericmiguel/pytyper/internal/errors"
)

// Supported style identifiers.
const (
	StyleTypedDict  = "typed_dict"
	StyleDataclass  = "dataclass"
	StylePydantic   = "pydantic"
	StyleNamedTuple = "namedtuple"
	StyleAttrs      = "attrs"
)

// ForStyle returns a fresh builder for the given style identifier. Builders
// hold no cross-call state, so each call returns a new instance.
func ForStyle(styleID string) (Builder, error) {
	switch styleID {
	case StyleTypedDict:
		return &TypedDictBuilder{}, nil
	case StyleDataclass:
		return &DataclassBuilder{}, nil
	case StylePydantic:
		return &PydanticBuilder{}, nil
	case StyleNamedTuple:
		return &NamedTupleBuilder{}, nil
	case StyleAttrs:
		return &AttrsBuilder{}, nil
	default:
		return nil, errors.NewStyleError(
			fmt.Sprintf("unknown builder style: %s", styleID),
			errors.ErrUnknownStyle,
		)
	}
}

// Styles lists the supported style identifiers in a stable order.
func Styles() []string {
	return []string{StyleTypedDict, StyleDataclass, StylePydantic, StyleNamedTuple, StyleAttrs}
}
