package domain

// Category groups transactions of a single type.
type Category struct {
	CategoryID string          `json:"categoryID"`
	UserID     string          `json:"userID"`
	Name       string          `json:"name"`
	Type       TransactionType `json:"type"`
	Color      string          `json:"color"`
	AuditFields
}

// DefaultCategory is a seed entry used when a user has no categories yet.
type DefaultCategory struct {
	Name  string
	Type  TransactionType
	Color string
}

// DefaultCategories is the set seeded once per user.
var DefaultCategories = []DefaultCategory{
	{Name: "Vendas", Type: Income, Color: "#10B981"},
	{Name: "Serviços", Type: Income, Color: "#3B82F6"},
	{Name: "Investimentos", Type: Income, Color: "#8B5CF6"},
	{Name: "Outros", Type: Income, Color: "#6B7280"},
	{Name: "Aluguel", Type: Expense, Color: "#EF4444"},
	{Name: "Salários", Type: Expense, Color: "#F59E0B"},
	{Name: "Marketing", Type: Expense, Color: "#EC4899"},
	{Name: "Fornecedores", Type: Expense, Color: "#F97316"},
	{Name: "Impostos", Type: Expense, Color: "#DC2626"},
	{Name: "Utilidades", Type: Expense, Color: "#14B8A6"},
	{Name: "Outros", Type: Expense, Color: "#6B7280"},
}
