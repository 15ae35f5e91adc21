package rbac

const (
	RoleEmployee   = "employee"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superAdmin"
	RoleAccountant = "accountant"

	ResourceDeclaration = "declaration"
)

// Policy grants action on resource to a role.
type Policy struct {
	Role     string
	Resource string
	Action   string
}

// DefaultPolicies are always loaded. Ownership and lifecycle state are
// checked by the declaration service, not here.
var DefaultPolicies = []Policy{
	{RoleEmployee, ResourceDeclaration, "save"},
	{RoleEmployee, ResourceDeclaration, "submit"},
	{RoleEmployee, ResourceDeclaration, "read"},
	{RoleEmployee, ResourceDeclaration, "delete"},
	{RoleEmployee, ResourceDeclaration, "upload"},
	{RoleEmployee, ResourceDeclaration, "render"},

	{RoleAdmin, ResourceDeclaration, "save"},
	{RoleAdmin, ResourceDeclaration, "submit"},
	{RoleAdmin, ResourceDeclaration, "read"},
	{RoleAdmin, ResourceDeclaration, "approve"},
	{RoleAdmin, ResourceDeclaration, "reject"},
	{RoleAdmin, ResourceDeclaration, "delete"},
	{RoleAdmin, ResourceDeclaration, "upload"},
	{RoleAdmin, ResourceDeclaration, "render"},
}

// DefaultInheritance maps a role to the role whose permissions it inherits.
var DefaultInheritance = map[string]string{
	RoleSuperAdmin: RoleAdmin,
	RoleAccountant: RoleAdmin,
}
