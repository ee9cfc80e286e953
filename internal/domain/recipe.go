package domain

// RecipeIngredientInput is one {id, amount} line of a recipe payload.
type RecipeIngredientInput struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeInput is the write payload for create and update. Pointer fields are
// optional on update; ingredients and tags are always replaced wholesale.
type RecipeInput struct {
	Name        *string                 `json:"name" validate:"omitempty,min=1,max=256"`
	Image       *string                 `json:"image"`
	Text        *string                 `json:"text" validate:"omitempty,min=1"`
	CookingTime *int                    `json:"cooking_time"`
	Ingredients []RecipeIngredientInput `json:"ingredients"`
	Tags        []uint                  `json:"tags"`
}

// RecipeFilter narrows a recipe listing.
type RecipeFilter struct {
	AuthorID         uint
	TagSlugs         []string
	FavoritedBy      uint
	InShoppingCartOf uint
}

// IngredientAmount is one line of a recipe read projection.
type IngredientAmount struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// TagResponse is the public shape of a tag.
type TagResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// RecipeResponse is the full read projection of a recipe for one viewer.
type RecipeResponse struct {
	ID               uint               `json:"id"`
	Author           UserResponse       `json:"author"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	Ingredients      []IngredientAmount `json:"ingredients"`
	Tags             []TagResponse      `json:"tags"`
	CookingTime      int                `json:"cooking_time"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
}

// RecipeShort is the compact recipe shape used by toggles and subscriptions.
type RecipeShort struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// ShoppingListLine is one aggregated ingredient of a shopping list.
type ShoppingListLine struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShortLinkResponse is returned by the get-link endpoint.
type ShortLinkResponse struct {
	ShortLink string `json:"short-link"`
}
