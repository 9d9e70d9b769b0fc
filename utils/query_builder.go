package utils

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type QueryBuildResult struct {
	Query string
	Args  []interface{}
}

// BuildDynamicUpdateQuery builds a parameterized UPDATE statement from a
// partial change set. Only fields present in allowedFields may appear in
// updateData; anything else is rejected. Fields are emitted in sorted order
// so the generated SQL is deterministic.
func BuildDynamicUpdateQuery(
	tableName string,
	updateData map[string]interface{},
	allowedFields map[string]bool,
	whereField string,
	whereValue interface{},
	autoAddUpdatedAt bool,
) (*QueryBuildResult, error) {
	if len(updateData) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	fields := make([]string, 0, len(updateData))
	for field := range updateData {
		if !allowedFields[field] {
			return nil, fmt.Errorf("field %s is not allowed to be updated", field)
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	setClauses := []string{}
	args := []interface{}{}
	argPosition := 1

	for _, field := range fields {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field, argPosition))
		args = append(args, updateData[field])
		argPosition++
	}

	if autoAddUpdatedAt {
		if _, ok := updateData["updated_at"]; !ok {
			setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argPosition))
			args = append(args, time.Now())
			argPosition++
		}
	}

	args = append(args, whereValue)
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d",
		tableName,
		strings.Join(setClauses, ", "),
		whereField,
		argPosition,
	)

	return &QueryBuildResult{
		Query: query,
		Args:  args,
	}, nil
}
