// Package dbutil holds small query helpers shared by the repositories.
package dbutil

import "strings"

// LikeEscape is the escape character used by ContainsPattern.
const LikeEscape = `\`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE pattern matching any value that contains s.
// Wildcards in s are escaped, so they match literally. Use it together with
// "LIKE ? ESCAPE '\'".
func ContainsPattern(s string) string {
	return "%" + likeReplacer.Replace(s) + "%"
}
