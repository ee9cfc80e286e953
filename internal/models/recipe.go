package models

import "time"

// Recipe is the aggregate root: it owns its ingredient lines and tag links.
type Recipe struct {
	ID          uint      `gorm:"primaryKey"`
	AuthorID    uint      `gorm:"not null;index"`
	Name        string    `gorm:"type:varchar(256);not null;index"`
	Image       string    `gorm:"type:varchar(255);not null"`
	Text        string    `gorm:"type:text;not null"`
	CookingTime int       `gorm:"not null;check:cooking_time >= 1"`
	PubDate     time.Time `gorm:"autoCreateTime;index"`

	Author      User                 `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Ingredients []IngredientInRecipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Tags        []Tag                `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
}

// IngredientInRecipe is one (ingredient, amount) line of a recipe.
type IngredientInRecipe struct {
	ID           uint `gorm:"primaryKey"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index"`
	Amount       int  `gorm:"not null;default:1;check:amount >= 1"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

// RecipeTag is the join row behind Recipe.Tags.
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey"`
	TagID    uint `gorm:"primaryKey;index"`
}

// Favorite marks a recipe as favorited by a user.
type Favorite struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID     uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index"`
	FavoriteDate time.Time `gorm:"autoCreateTime"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// ShoppingCart puts a recipe into a user's shopping list.
type ShoppingCart struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_cart_user_recipe;index"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// Link is the short link issued for a recipe. One per recipe, created lazily.
type Link struct {
	RecipeID  uint   `gorm:"primaryKey;autoIncrement:false"`
	BaseLink  string `gorm:"type:varchar(255)"`
	ShortCode string `gorm:"type:varchar(20);uniqueIndex;not null"`
	ShortLink string `gorm:"type:varchar(255);not null"`

	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}
