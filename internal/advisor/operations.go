package advisor

import (
	"context"
	"fmt"
	"strings"
)

// PlanMeals asks for dishes for one day and meal slot built from the
// given pantry. Every returned idea carries a menu name, an item list
// and a recipe; the model is told to mark ingredients it expects the
// pantry to cover with buy "0".
func (c *Client) PlanMeals(ctx context.Context, req PlanRequest) ([]MealIdea, error) {
	if len(req.Ingredients) == 0 {
		return nil, fmt.Errorf("no ingredients to plan with")
	}
	adults := req.Adults
	if adults <= 0 {
		adults = 4
	}
	children := req.Children
	if children < 0 {
		children = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "你是露營料理規劃師。請為「%s %s」設計餐點，共 %d 大人、%d 小孩", req.DayLabel, req.MealType, adults, children)
	if req.Location != "" {
		fmt.Fprintf(&b, "，地點是%s", req.Location)
	}
	b.WriteString("。\n現有食材: ")
	b.WriteString(strings.Join(req.Ingredients, "、"))
	fmt.Fprintf(&b, `
可以拆成多道菜，每道輸出一個物件。day_label 固定填「%s」，meal_type 固定填 %s。
items 列出該道菜所需食材；已在現有食材清單內的 buy 填 "0"，需要加購的填數量。
recipe 用露營爐具可行的作法步驟，並附一個適合搜尋教學影片的關鍵字。
回傳 JSON: {"plans": [{"day_label": "...", "meal_type": "...", "title": "...", "menu_name": "...", "reason": "...", "items": [{"name": "...", "buy": "..."}], "recipe": {"steps": ["..."], "video_query": "..."}}]}`,
		req.DayLabel, req.MealType)

	var out struct {
		Plans []MealIdea `json:"plans"`
	}
	if err := c.generate(ctx, b.String(), nil, "", &out); err != nil {
		return nil, fmt.Errorf("plan meals: %w", err)
	}
	if err := validateIdeas(out.Plans); err != nil {
		return nil, fmt.Errorf("plan meals: %w", err)
	}
	return out.Plans, nil
}

// RescueRecipe asks for one last meal that clears out the remaining
// unlocked ingredients before teardown.
func (c *Client) RescueRecipe(ctx context.Context, ingredients []string) (*MealIdea, error) {
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("nothing left to rescue")
	}

	prompt := fmt.Sprintf(`你是露營料理規劃師。撤收前冰箱還剩這些食材: %s
請設計一道能一次用掉它們的料理，盡量不要再買東西。
recipe 用露營爐具可行的作法步驟，並附一個適合搜尋教學影片的關鍵字。
回傳 JSON: {"title": "...", "menu_name": "...", "reason": "...", "items": [{"name": "...", "buy": "..."}], "recipe": {"steps": ["..."], "video_query": "..."}}`,
		strings.Join(ingredients, "、"))

	var idea MealIdea
	if err := c.generate(ctx, prompt, nil, "", &idea); err != nil {
		return nil, fmt.Errorf("rescue recipe: %w", err)
	}
	if idea.MenuName == "" && idea.Title == "" {
		return nil, fmt.Errorf("rescue recipe: empty suggestion")
	}
	return &idea, nil
}

// DishRecipe asks for cooking steps for a single named dish.
func (c *Client) DishRecipe(ctx context.Context, dish string) (*Recipe, error) {
	if strings.TrimSpace(dish) == "" {
		return nil, fmt.Errorf("dish name required")
	}

	prompt := fmt.Sprintf(`請用露營爐具可行的方式，列出「%s」的作法步驟，並給一個適合搜尋教學影片的關鍵字。
回傳 JSON: {"steps": ["..."], "video_query": "..."}`, dish)

	var r Recipe
	if err := c.generate(ctx, prompt, nil, "", &r); err != nil {
		return nil, fmt.Errorf("dish recipe: %w", err)
	}
	if len(r.Steps) == 0 {
		return nil, fmt.Errorf("dish recipe: no steps returned")
	}
	return &r, nil
}

// GearAdvice reviews the current gear list against the destination and
// returns names of items worth adding.
func (c *Client) GearAdvice(ctx context.Context, req GearRequest) ([]string, error) {
	var b strings.Builder
	b.WriteString("你是露營裝備顧問。")
	if req.Location != "" {
		fmt.Fprintf(&b, "目的地是%s。", req.Location)
	}
	if req.Date != "" {
		fmt.Fprintf(&b, "日期是 %s。", req.Date)
	}
	b.WriteString("\n目前裝備清單: ")
	b.WriteString(strings.Join(req.Existing, "、"))
	b.WriteString("\n請列出清單裡缺少、但這趟行程應該帶的裝備名稱。\n回傳 JSON: {\"suggestions\": [\"...\"]}")

	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := c.generate(ctx, b.String(), nil, "", &out); err != nil {
		return nil, fmt.Errorf("gear advice: %w", err)
	}
	return out.Suggestions, nil
}

// IngredientsFromImage reads a photo of groceries or a fridge and
// returns the ingredient names it recognizes.
func (c *Client) IngredientsFromImage(ctx context.Context, image []byte, mimeType string) ([]string, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image required")
	}

	prompt := `請辨識照片中的食材，每項只回報名稱。
回傳 JSON: {"ingredients": ["..."]}`

	var out struct {
		Ingredients []string `json:"ingredients"`
	}
	if err := c.generate(ctx, prompt, image, mimeType, &out); err != nil {
		return nil, fmt.Errorf("identify ingredients: %w", err)
	}
	if len(out.Ingredients) == 0 {
		return nil, fmt.Errorf("identify ingredients: nothing recognized")
	}
	return out.Ingredients, nil
}

// MenuFromImage reads a photo of a menu or handwritten plan and turns it
// into meal ideas.
func (c *Client) MenuFromImage(ctx context.Context, image []byte, mimeType string) ([]MealIdea, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image required")
	}

	prompt := `請解讀照片中的菜單或餐點規劃，整理成餐次列表。
day_label 用「第 N 天」格式，看不出天數就填「第 1 天」。meal_type 用 早餐/午餐/晚餐。
回傳 JSON: {"plans": [{"day_label": "...", "meal_type": "...", "title": "...", "menu_name": "...", "reason": "...", "items": [{"name": "...", "buy": "..."}]}]}`

	var out struct {
		Plans []MealIdea `json:"plans"`
	}
	if err := c.generate(ctx, prompt, image, mimeType, &out); err != nil {
		return nil, fmt.Errorf("read menu image: %w", err)
	}
	if err := validateIdeas(out.Plans); err != nil {
		return nil, fmt.Errorf("read menu image: %w", err)
	}
	return out.Plans, nil
}

// ParseItinerary turns free-form itinerary text into meal slots.
func (c *Client) ParseItinerary(ctx context.Context, text string) ([]MealIdea, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("itinerary text required")
	}

	prompt := fmt.Sprintf(`以下是露營行程描述，請整理出每一餐的餐次。
day_label 用「第 N 天」格式，meal_type 用 早餐/午餐/晚餐。沒提到菜色就讓 title 和 menu_name 留空字串。
行程:
%s
回傳 JSON: {"plans": [{"day_label": "...", "meal_type": "...", "title": "...", "menu_name": "...", "reason": "...", "items": []}]}`, text)

	var out struct {
		Plans []MealIdea `json:"plans"`
	}
	if err := c.generate(ctx, prompt, nil, "", &out); err != nil {
		return nil, fmt.Errorf("parse itinerary: %w", err)
	}
	if len(out.Plans) == 0 {
		return nil, fmt.Errorf("parse itinerary: no meals found")
	}
	return out.Plans, nil
}

func validateIdeas(ideas []MealIdea) error {
	if len(ideas) == 0 {
		return fmt.Errorf("no plans returned")
	}
	for i, idea := range ideas {
		if idea.DayLabel == "" {
			return fmt.Errorf("plan %d missing day label", i)
		}
		if idea.MealType == "" {
			return fmt.Errorf("plan %d missing meal type", i)
		}
	}
	return nil
}
