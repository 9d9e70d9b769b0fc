package services

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// DataTablesOrder is one resolved ordering request.
type DataTablesOrder struct {
	Column    string
	Direction string
}

// DataTablesParams is the parsed form of a DataTables server-side request.
type DataTablesParams struct {
	Draw        int
	Start       int
	Length      int
	SearchValue string
	Orders      []DataTablesOrder
}

// DataTablesResponse is the wire shape DataTables expects. Draw is echoed
// back unchanged for request/response correlation.
type DataTablesResponse struct {
	Draw            int                      `json:"draw"`
	RecordsTotal    int                      `json:"recordsTotal"`
	RecordsFiltered int                      `json:"recordsFiltered"`
	Data            []map[string]interface{} `json:"data"`
}

// DataTablesQuery configures one call site. SearchableColumns and
// OrderableColumns map logical column names to column expressions valid
// against the base query's output; only mapped expressions ever reach SQL,
// so unknown client-supplied names can never inject anything.
type DataTablesQuery struct {
	// BaseQuery is a plain SELECT with no trailing WHERE/ORDER/LIMIT of its
	// own semantics to preserve; it is wrapped in a subquery before anything
	// is appended, so an ORDER BY on it cannot break counting.
	BaseQuery             string
	SearchableColumns     map[string]string
	OrderableColumns      map[string]string
	DefaultOrderColumn    string
	DefaultOrderDirection string
	// RowMapper transforms each scanned row. Nil means rows pass through.
	RowMapper func(row map[string]interface{}) map[string]interface{}
}

// DataTablesService translates DataTables pagination/search/sort parameters
// into the three-phase count / filtered count / page fetch execution,
// generically over any configured column set.
type DataTablesService struct {
	db *sqlx.DB
}

func NewDataTablesService(db *sqlx.DB) *DataTablesService {
	return &DataTablesService{db: db}
}

// ParseParams reads the DataTables request parameters. Unparsable numbers
// fall back to defaults rather than failing the request. Order entries are
// walked by contiguous index; resolution goes through columns[i][name] and
// falls back to columns[i][data]. Entries that resolve to no known column
// name are skipped.
func (s *DataTablesService) ParseParams(values url.Values) DataTablesParams {
	draw := toInt(values.Get("draw"), 1, 0)
	start := toInt(values.Get("start"), 0, 0)
	length := toInt(values.Get("length"), 10, 1)
	searchValue := strings.TrimSpace(values.Get("search[value]"))

	var orders []DataTablesOrder
	for index := 0; ; index++ {
		columnIndexKey := fmt.Sprintf("order[%d][column]", index)
		if !values.Has(columnIndexKey) {
			break
		}

		columnIndex := toInt(values.Get(columnIndexKey), -1, -1)
		if columnIndex < 0 {
			continue
		}

		columnName := strings.TrimSpace(values.Get(fmt.Sprintf("columns[%d][name]", columnIndex)))
		if columnName == "" {
			columnName = strings.TrimSpace(values.Get(fmt.Sprintf("columns[%d][data]", columnIndex)))
		}
		if columnName == "" {
			continue
		}

		direction := "asc"
		if strings.EqualFold(values.Get(fmt.Sprintf("order[%d][dir]", index)), "desc") {
			direction = "desc"
		}

		orders = append(orders, DataTablesOrder{Column: columnName, Direction: direction})
	}

	return DataTablesParams{
		Draw:        draw,
		Start:       start,
		Length:      length,
		SearchValue: searchValue,
		Orders:      orders,
	}
}

// BuildResponse runs the full pipeline: unfiltered count, search filter,
// filtered count, ordering, pagination, row mapping.
func (s *DataTablesService) BuildResponse(query DataTablesQuery, values url.Values) (*DataTablesResponse, error) {
	params := s.ParseParams(values)

	recordsTotal, err := s.countRows(query.BaseQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count total records: %w", err)
	}

	filteredQuery := fmt.Sprintf("SELECT * FROM (%s) AS dt", query.BaseQuery)
	var filterArgs []interface{}
	if params.SearchValue != "" && len(query.SearchableColumns) > 0 {
		keyword := "%" + strings.ToLower(params.SearchValue) + "%"

		columns := make([]string, 0, len(query.SearchableColumns))
		for _, column := range query.SearchableColumns {
			columns = append(columns, column)
		}
		sort.Strings(columns)

		filters := make([]string, len(columns))
		for i, column := range columns {
			filters[i] = fmt.Sprintf("LOWER(CAST(%s AS TEXT)) LIKE $1", column)
		}
		filteredQuery += " WHERE (" + strings.Join(filters, " OR ") + ")"
		filterArgs = append(filterArgs, keyword)
	}

	recordsFiltered, err := s.countRows(filteredQuery, filterArgs)
	if err != nil {
		return nil, fmt.Errorf("failed to count filtered records: %w", err)
	}

	orderedQuery := filteredQuery + s.buildOrderClause(params.Orders, query)

	argPosition := len(filterArgs) + 1
	pagedQuery := fmt.Sprintf("%s LIMIT $%d OFFSET $%d", orderedQuery, argPosition, argPosition+1)
	pagedArgs := append(filterArgs, params.Length, params.Start)

	rows, err := s.db.Queryx(pagedQuery, pagedArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer rows.Close()

	data := []map[string]interface{}{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		normalizeRow(row)
		if query.RowMapper != nil {
			row = query.RowMapper(row)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}

	return &DataTablesResponse{
		Draw:            params.Draw,
		RecordsTotal:    recordsTotal,
		RecordsFiltered: recordsFiltered,
		Data:            data,
	}, nil
}

// countRows counts the rows of an arbitrary query by wrapping it in a
// subquery, which also neutralizes any ORDER BY the query carries.
func (s *DataTablesService) countRows(query string, args []interface{}) (int, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS count_sub", query)
	var count int
	if err := s.db.QueryRow(countQuery, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// buildOrderClause applies resolved order requests in request order (first
// request has highest priority). Requests naming a column outside the
// orderable map are dropped. When nothing resolves, the configured default
// ordering applies, or none at all if no default was configured.
func (s *DataTablesService) buildOrderClause(orders []DataTablesOrder, query DataTablesQuery) string {
	parts := []string{}
	for _, order := range orders {
		column, ok := query.OrderableColumns[order.Column]
		if !ok {
			continue
		}
		parts = append(parts, column+" "+strings.ToUpper(order.Direction))
	}

	if len(parts) == 0 && query.DefaultOrderColumn != "" {
		if column, ok := query.OrderableColumns[query.DefaultOrderColumn]; ok {
			direction := "ASC"
			if strings.EqualFold(query.DefaultOrderDirection, "desc") {
				direction = "DESC"
			}
			parts = append(parts, column+" "+direction)
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// normalizeRow converts []byte column values to string so the JSON encoder
// does not base64 them.
func normalizeRow(row map[string]interface{}) {
	for key, value := range row {
		if b, ok := value.([]byte); ok {
			row[key] = string(b)
		}
	}
}

// toInt parses an integer with a fallback default and a lower bound.
func toInt(raw string, defaultValue, minValue int) int {
	parsed := defaultValue
	if raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			parsed = v
		}
	}
	if parsed < minValue {
		return minValue
	}
	return parsed
}
