package service

import (
	"fmt"
	"strconv"
	"strings"
)

// seasonString formats a start year the way the stats API spells seasons,
// e.g. 1999 -> "1999-00", 2023 -> "2023-24".
func seasonString(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

func seasonStartYear(season string) int {
	year, _, found := strings.Cut(season, "-")
	if !found {
		return 0
	}
	n, err := strconv.Atoi(year)
	if err != nil {
		return 0
	}
	return n
}
