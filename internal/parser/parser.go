package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	stderrors "errors"

	"github.com/buger/jsonparser"
	"github.com/ericmiguel/pytyper/internal/errors"
	"github.com/ericmiguel/pytyper/internal/models"
)

// Parse converts JSON data from an io.Reader into an IntermediateRepresentation.
// Object keys are kept in document order, which is what makes field ordering in
// the generated code deterministic.
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read input", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a single JSON value from raw bytes.
func ParseBytes(data []byte) (models.IntermediateRepresentation, error) {
	trimmed := []byte(strings.TrimSpace(string(data)))
	if len(trimmed) == 0 {
		return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	// Validate with encoding/json first: jsonparser is lenient about syntax,
	// while the decoder reports precise offsets and catches trailing data.
	if err := validate(trimmed); err != nil {
		return models.IntermediateRepresentation{}, err
	}

	rootValue, err := buildRoot(trimmed)
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}

	ir := models.IntermediateRepresentation{Root: rootValue}
	if _, ok := rootValue.(models.JSONArray); ok {
		ir.RootIsArray = true
	}
	return ir, nil
}

// validate runs the input through a json.Decoder to reject malformed JSON and
// multiple root values before the ordered walk begins.
func validate(data []byte) error {
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.UseNumber()

	var probe interface{}
	if err := decoder.Decode(&probe); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		return errors.NewParsingError("failed to decode JSON", err)
	}

	if decoder.More() {
		var trailing interface{}
		if err := decoder.Decode(&trailing); err != nil {
			if !stderrors.Is(err, io.EOF) {
				return errors.NewParsingError("invalid trailing data after first JSON value", err)
			}
		} else {
			return errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
		}
	}
	return nil
}

// buildRoot extracts the root value and converts it into model types.
func buildRoot(data []byte) (models.JSONValue, error) {
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, errors.NewParsingError("failed to read JSON value", err)
	}
	return buildValue(value, dataType)
}

// buildValue converts a raw jsonparser value into our model types. Numbers
// are kept as json.Number so the inference engine can distinguish integers
// from floats.
func buildValue(value []byte, dataType jsonparser.ValueType) (models.JSONValue, error) {
	switch dataType {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return nil, errors.NewParsingError("invalid boolean value", err)
		}
		return b, nil
	case jsonparser.Number:
		return json.Number(string(value)), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, errors.NewParsingError("invalid string value", err)
		}
		return s, nil
	case jsonparser.Object:
		obj := models.NewJSONObject()
		err := jsonparser.ObjectEach(value, func(key, val []byte, vt jsonparser.ValueType, _ int) error {
			name, keyErr := jsonparser.ParseString(key)
			if keyErr != nil {
				return keyErr
			}
			child, childErr := buildValue(val, vt)
			if childErr != nil {
				return childErr
			}
			obj.Set(name, child)
			return nil
		})
		if err != nil {
			var appErr *errors.AppError
			if stderrors.As(err, &appErr) {
				return nil, err
			}
			return nil, errors.NewParsingError("failed to walk JSON object", err)
		}
		return obj, nil
	case jsonparser.Array:
		arr := make(models.JSONArray, 0)
		var walkErr error
		_, err := jsonparser.ArrayEach(value, func(val []byte, vt jsonparser.ValueType, _ int, _ error) {
			if walkErr != nil {
				return
			}
			child, childErr := buildValue(val, vt)
			if childErr != nil {
				walkErr = childErr
				return
			}
			arr = append(arr, child)
		})
		if err != nil {
			return nil, errors.NewParsingError("failed to walk JSON array", err)
		}
		if walkErr != nil {
			return nil, walkErr
		}
		return arr, nil
	default:
		return nil, errors.NewParsingError(fmt.Sprintf("unexpected JSON value type %v", dataType), errors.ErrInvalidJSON)
	}
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseBytes([]byte(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.IntermediateRepresentation{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}

// FetchURL fetches JSON from a URL and parses it. This is a thin I/O wrapper
// around the core; the pipeline itself never touches the network.
func FetchURL(url string) (models.IntermediateRepresentation, error) {
	resp, err := http.Get(url)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to fetch '%s'", url),
			err,
		)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing response body: %v\n", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("unexpected status %s fetching '%s'", resp.Status, url),
			nil,
		)
	}

	return Parse(resp.Body)
}
