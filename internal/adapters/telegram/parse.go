package telegram

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errUsage = errors.New("malformed input")
	errType  = errors.New("post id is not an integer")
)

// Callback payloads look like "<action>_post_<id>".
const callbackSeparator = "_post_"

const (
	actionView   = "view"
	actionEdit   = "edit"
	actionDelete = "delete"
	actionCreate = "create"
)

// parseCreateArgs reads "/create <title> <description...>": the first token
// is the title, the rest joined by spaces is the description.
func parseCreateArgs(args []string) (string, string, error) {
	if len(args) < 2 {
		return "", "", errUsage
	}
	return args[0], strings.Join(args[1:], " "), nil
}

// parseCreateLine reads "title, description". The description may itself
// contain commas.
func parseCreateLine(text string) (string, string, error) {
	fields := splitFields(text, 2)
	if len(fields) < 2 {
		return "", "", errUsage
	}
	return fields[0], fields[1], nil
}

// parseEditArgs reads "/edit <id> <description...>".
func parseEditArgs(args []string) (int64, string, error) {
	if len(args) < 2 {
		return 0, "", errUsage
	}
	id, err := parsePostID(args[0])
	if err != nil {
		return 0, "", err
	}
	return id, strings.Join(args[1:], " "), nil
}

// parseEditLine reads "id, title, description".
func parseEditLine(text string) (int64, string, string, error) {
	fields := splitFields(text, 3)
	if len(fields) < 3 {
		return 0, "", "", errUsage
	}
	id, err := parsePostID(fields[0])
	if err != nil {
		return 0, "", "", err
	}
	return id, fields[1], fields[2], nil
}

func parsePostID(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, errType
	}
	return id, nil
}

func parseCallbackData(data string) (string, int64, error) {
	action, rawID, ok := strings.Cut(data, callbackSeparator)
	if !ok {
		return "", 0, errUsage
	}
	switch action {
	case actionView, actionEdit, actionDelete:
	default:
		return "", 0, errUsage
	}
	id, err := parsePostID(rawID)
	if err != nil {
		return "", 0, err
	}
	return action, id, nil
}

func callbackData(action string, id int64) string {
	return action + callbackSeparator + strconv.FormatInt(id, 10)
}

func splitFields(text string, n int) []string {
	fields := strings.SplitN(text, ",", n)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}
