package k8s

import "strings"

var nameSeparators = strings.NewReplacer("_", "-", ".", "-", `\`, "-", "/", "-")

// SafeName maps separators that Kubernetes object names reject ("_", ".",
// "\" and "/") to "-" and trims leading and trailing dashes.
// SafeName(SafeName(s)) == SafeName(s).
func SafeName(name string) string {
	return strings.Trim(nameSeparators.Replace(name), "-")
}
