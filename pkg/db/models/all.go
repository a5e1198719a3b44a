package models

// All lists every persisted model, parents before children.
func All() []any {
	return []any{
		&Store{},
		&Category{},
		&ProductSize{},
		&AttributeOption{},
		&AttributePrice{},
		&Additional{},
		&Product{},
		&CategoryFlowStep{},
		&UpsellPrompt{},
		&CartLine{},
	}
}
