package authz

// Resource is a domain noun that permissions are scoped to.
type Resource string

// Resources known to the permission schema.
const (
	ResourceUser       Resource = "user"
	ResourceSession    Resource = "session"
	ResourceProduct    Resource = "product"
	ResourceOrder      Resource = "order"
	ResourceCategory   Resource = "category"
	ResourceContent    Resource = "content"
	ResourceBlog       Resource = "blog"
	ResourceDiscount   Resource = "discount"
	ResourceAnalytics  Resource = "analytics"
	ResourceReview     Resource = "review"
	ResourceCoupon     Resource = "coupon"
	ResourceInventory  Resource = "inventory"
	ResourceSupport    Resource = "support"
	ResourceSiteConfig Resource = "siteConfig"
)

// GrantSet maps resources to the actions allowed on them. It is the unit of
// both role grants and per-route permission requirements. Action names are
// only meaningful together with their resource.
type GrantSet map[Resource][]string

// schema declares the closed set of actions each resource supports. Roles and
// route requirements are validated against it at startup; it has no runtime
// mutation API.
var schema = GrantSet{
	ResourceUser:       {"create", "read", "update", "delete", "list", "ban", "unban", "change_role"},
	ResourceSession:    {"delete", "list", "revoke"},
	ResourceProduct:    {"create", "read", "update", "delete", "list", "publish", "unpublish", "manage_inventory"},
	ResourceOrder:      {"create", "read", "update", "delete", "list", "cancel", "fulfill", "refund", "track"},
	ResourceCategory:   {"create", "read", "update", "delete", "list", "reorder"},
	ResourceContent:    {"create", "read", "update", "delete", "list", "publish", "unpublish"},
	ResourceBlog:       {"create", "read", "update", "delete", "list", "publish", "unpublish"},
	ResourceDiscount:   {"create", "read", "update", "delete", "list", "activate", "deactivate"},
	ResourceAnalytics:  {"view_sales", "view_traffic", "view_customers", "view_products", "export_reports"},
	ResourceReview:     {"create", "read", "update", "delete", "moderate", "respond"},
	ResourceCoupon:     {"create", "read", "update", "delete", "list", "validate"},
	ResourceInventory:  {"view", "update", "track", "alert", "transfer"},
	ResourceSupport:    {"view_tickets", "respond", "escalate", "close", "assign"},
	ResourceSiteConfig: {"read", "update"},
}

// Schema returns a deep copy of the permission schema so callers cannot
// mutate the process-wide tables.
func Schema() GrantSet {
	return cloneGrantSet(schema)
}

// SchemaDeclares reports whether the schema declares the action for the
// resource.
func SchemaDeclares(resource Resource, action string) bool {
	for _, a := range schema[resource] {
		if a == action {
			return true
		}
	}
	return false
}

func cloneGrantSet(src GrantSet) GrantSet {
	dst := make(GrantSet, len(src))
	for resource, actions := range src {
		copied := make([]string, len(actions))
		copy(copied, actions)
		dst[resource] = copied
	}
	return dst
}
