package resolve

// stdlibModules is the set of Python standard-library top-level package/
// module names. An absolute import whose first dotted segment is in this
// set is never local, regardless of what also happens to sit on disk under
// that name — matching the original project's classification order (stdlib
// check before filesystem probing). Not exhaustive of every stdlib module
// ever shipped; covers the set a real analyzed project is likely to import.
var stdlibModules = map[string]bool{
	"abc": true, "argparse": true, "array": true, "ast": true,
	"asyncio": true, "base64": true, "bisect": true, "builtins": true,
	"calendar": true, "collections": true, "contextlib": true, "copy": true,
	"csv": true, "dataclasses": true, "datetime": true, "decimal": true,
	"difflib": true, "dis": true, "enum": true, "errno": true,
	"functools": true, "gc": true, "getpass": true, "glob": true,
	"hashlib": true, "heapq": true, "hmac": true, "html": true,
	"http": true, "importlib": true, "inspect": true, "io": true,
	"itertools": true, "json": true, "logging": true, "math": true,
	"multiprocessing": true, "os": true, "pathlib": true, "pickle": true,
	"platform": true, "pprint": true, "queue": true, "random": true,
	"re": true, "shutil": true, "signal": true, "socket": true,
	"sqlite3": true, "ssl": true, "stat": true, "string": true,
	"struct": true, "subprocess": true, "sys": true, "tempfile": true,
	"textwrap": true, "threading": true, "time": true, "traceback": true,
	"types": true, "typing": true, "unittest": true, "urllib": true,
	"uuid": true, "warnings": true, "weakref": true, "xml": true, "zlib": true,
}

// IsStdlibModule reports whether the first dotted segment of module is a
// Python standard-library package.
func IsStdlibModule(module string) bool {
	head := module
	for i, c := range module {
		if c == '.' {
			head = module[:i]
			break
		}
	}
	return stdlibModules[head]
}
