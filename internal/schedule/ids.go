package schedule

import (
	"regexp"
	"strings"
)

var snowflakeRe = regexp.MustCompile(`^\d{17,19}$`)

// IsValidSnowflake reports whether id looks like a Discord snowflake.
func IsValidSnowflake(id string) bool {
	return snowflakeRe.MatchString(id)
}

var sanitizer = strings.NewReplacer(
	"<", "",
	">", "",
	"&", "&amp;",
	`"`, "",
	"'", "",
)

// Sanitize strips markup characters from user supplied text before it is echoed back.
func Sanitize(s string) string {
	return strings.TrimSpace(sanitizer.Replace(s))
}
