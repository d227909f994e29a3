package token

import "strings"

// Callback-data payloads are colon-delimited: a fixed verb, optionally
// followed by one token argument.
const (
	CallbackRefile    = "refile"
	CallbackRetryFile = "retry_file"
	CallbackVerify    = "verify"
	CallbackPayVerify = "pay_verify"

	CallbackMenuGetFile = "menu_get_file"
	CallbackMenuHelp    = "menu_help"
	CallbackMenuPremium = "menu_premium"
	CallbackCloseMsg    = "close_msg"
)

// Callback formats "<verb>:<arg>", or just the verb when arg is empty.
func Callback(verb, arg string) string {
	if arg == "" {
		return verb
	}
	return verb + ":" + arg
}

// SplitCallback separates a callback payload into verb and argument. The
// argument is empty for bare menu verbs.
func SplitCallback(data string) (verb, arg string) {
	if i := strings.IndexByte(data, ':'); i >= 0 {
		return data[:i], data[i+1:]
	}
	return data, ""
}
