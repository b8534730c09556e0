package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"quiz:view",
		"submission:create",
		"submission:view-own",
		"results:view-own",
	},
	"teacher": {
		"quiz:create",
		"quiz:view",
		"class:manage",
		"assignment:manage",
		"submission:view-all",
		"results:view",
		"integrity:view",
	},
	"admin": {
		"*", // everything
	},
}
