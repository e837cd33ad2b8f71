package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/botsim/game"
	"github.com/pthm-cable/botsim/protocol"
)

func text(label string, get func(any) string) FieldDescriptor {
	return FieldDescriptor{Label: label, Widget: WidgetText, TextGetter: get}
}

func number(label, format string, get func(any) float64) FieldDescriptor {
	return FieldDescriptor{Label: label, Widget: WidgetText, Format: format, Getter: get}
}

func meter(label string, cur, ceil func(any) float64) FieldDescriptor {
	return FieldDescriptor{Label: label, Widget: WidgetMeter, Getter: cur, MaxGetter: ceil}
}

func bot(d any) protocol.BotShadow { return d.(protocol.BotShadow) }
func food(d any) protocol.FoodShadow { return d.(protocol.FoodShadow) }
func tree(d any) protocol.TreeShadow { return d.(protocol.TreeShadow) }
func cell(d any) game.CellInfo { return d.(game.CellInfo) }

func baseSection(title string) SectionDescriptor {
	return SectionDescriptor{
		Title: title,
		Fields: []FieldDescriptor{
			text("id", func(d any) string { return fmt.Sprint(d.(protocol.Shadow).Base().ID) }),
			text("position", func(d any) string {
				p := d.(protocol.Shadow).Base().Pos
				return fmt.Sprintf("%.1f, %.1f", p.X, p.Y)
			}),
			number("radius", "%.1f", func(d any) float64 { return d.(protocol.Shadow).Base().Radius }),
		},
	}
}

var botSections = []SectionDescriptor{
	baseSection("Bot"),
	{
		Title: "Reserves",
		Fields: []FieldDescriptor{
			text("population", func(d any) string { return bot(d).Population }),
			{Label: "color", Widget: WidgetSwatch, ColorGetter: func(d any) rl.Color { return rl.Color(bot(d).Color) }},
			meter("health", func(d any) float64 { return bot(d).Health }, func(d any) float64 { return bot(d).MaxHealth }),
			meter("food", func(d any) float64 { return bot(d).Food }, func(d any) float64 { return bot(d).MaxFood }),
		},
	},
	{
		Title: "Abilities",
		Fields: []FieldDescriptor{
			number("vision", "%.1f", func(d any) float64 { return bot(d).Vision }),
			number("speed", "%.2f", func(d any) float64 { return bot(d).Speed }),
			number("damage", "%.1f", func(d any) float64 { return bot(d).Damage }),
			{
				Label:      "status",
				Widget:     WidgetText,
				Visible:    func(d any) bool { return bot(d).RecentlyAttacked },
				TextGetter: func(any) string { return "under attack" },
			},
		},
	},
}

var foodSections = []SectionDescriptor{
	baseSection("Food"),
	{
		Fields: []FieldDescriptor{
			meter("calories", func(d any) float64 { return food(d).Calories }, func(d any) float64 { return food(d).MaxCalories }),
			text("state", func(d any) string {
				if food(d).Growing {
					return "growing"
				}
				return "decaying"
			}),
		},
	},
}

var treeSections = []SectionDescriptor{
	baseSection("Tree"),
	{
		Fields: []FieldDescriptor{
			number("fruits", "%.0f", func(d any) float64 { return float64(tree(d).Fruits) }),
			meter("cooldown", func(d any) float64 { return float64(tree(d).Cooldown) }, func(d any) float64 { return float64(tree(d).MaxCooldown) }),
		},
	},
}

var cellSections = []SectionDescriptor{
	{
		Title: "Cell",
		Fields: []FieldDescriptor{
			text("index", func(d any) string { return fmt.Sprintf("%d (col %d, row %d)", cell(d).Ref, cell(d).Col, cell(d).Row) }),
			number("members", "%.0f", func(d any) float64 { return float64(len(cell(d).Members)) }),
		},
	},
	{
		Title: "Modifiers",
		Fields: []FieldDescriptor{
			number("vision", "x%.2f", func(d any) float64 { return cell(d).VisionMultiplier }),
			number("speed", "x%.2f", func(d any) float64 { return cell(d).SpeedMultiplier }),
			number("hunger", "x%.2f", func(d any) float64 { return cell(d).HungerMultiplier }),
		},
	},
}

// Inspector renders the selection panel.
type Inspector struct {
	theme       Theme
	x, y, width int32
}

func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{theme: DefaultTheme(), x: x, y: y, width: width}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x, ins.y = x, y
}

// Draw renders the panel for a shadow or a game.CellInfo. Other values draw nothing.
func (ins *Inspector) Draw(data any) {
	var sections []SectionDescriptor
	switch data.(type) {
	case protocol.BotShadow:
		sections = botSections
	case protocol.FoodShadow:
		sections = foodSections
	case protocol.TreeShadow:
		sections = treeSections
	case game.CellInfo:
		sections = cellSections
	default:
		return
	}

	panel(&ins.theme, ins.x, ins.y, ins.width, func(c *column) {
		for _, sd := range sections {
			c.section(sd, data)
		}
	})
}
