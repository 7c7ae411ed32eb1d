package server

import (
	"encoding/json"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/pkg/errors"
	"github.com/therealmvp/models"
)

// MountID is the id of the element the linked chart is drawn into.
const MountID = "main"

const (
	outOfRangeColor = "#ddd"
	axisColor       = "#555"
	tooltipFormat   = "{a}: {c}"
)

// Colours for models.Positions, index for index.
var positionPalette = []string{"#4E79A7", "#F28E2B", "#E15759", "#76B7B2", "#59A14E", "#EDC949", "#B07AA1"}

// parallelAxis always writes dim. opts.ParallelAxis omits a zero Dim, which
// leaves the first axis unbound.
type parallelAxis struct {
	Dim  int    `json:"dim"`
	Name string `json:"name"`
}

// parallelAxes binds the numeric ParallelTuple dimensions to named axes.
// Dimensions 3, 7 and 8 (position, team, name) carry no axis.
var parallelAxes = []parallelAxis{
	{Dim: 0, Name: "Points"},
	{Dim: 1, Name: "Rebounds"},
	{Dim: 2, Name: "Blocks"},
	{Dim: 4, Name: "Assists"},
	{Dim: 5, Name: "Steals"},
	{Dim: 6, Name: "Turnovers"},
}

// Renderer turns derived series into a chart ready to be mounted.
type Renderer interface {
	Render(series models.Series) (*LinkedChart, error)
}

// LinkedChart is the result of a render: where to mount and what to apply.
type LinkedChart struct {
	MountID string
	Option  LinkedOption
	Records int
}

// OptionJSON returns the option as the ECharts setOption argument.
func (c *LinkedChart) OptionJSON() ([]byte, error) {
	return json.Marshal(c.Option)
}

// LinkedOption is the single ECharts option holding the parallel and
// scatter series, joined by the position colour map and a shared brush.
type LinkedOption struct {
	Animation    bool           `json:"animation"`
	VisualMap    visualMap      `json:"visualMap"`
	Brush        brush          `json:"brush"`
	Toolbox      toolbox        `json:"toolbox"`
	Tooltip      opts.Tooltip   `json:"tooltip"`
	ParallelAxis []parallelAxis `json:"parallelAxis"`
	Parallel     parallel       `json:"parallel"`
	XAxis        axis           `json:"xAxis"`
	YAxis        axis           `json:"yAxis"`
	Grid         []opts.Grid    `json:"grid"`
	Series       []seriesOption `json:"series"`
}

type visualMap struct {
	Type        string     `json:"type"`
	Categories  []string   `json:"categories"`
	Dimension   int        `json:"dimension"`
	Orient      string     `json:"orient"`
	Top         int        `json:"top"`
	Left        string     `json:"left"`
	InRange     colorRange `json:"inRange"`
	OutOfRange  colorRange `json:"outOfRange"`
	SeriesIndex []int      `json:"seriesIndex"`
}

type colorRange struct {
	Color any `json:"color"`
}

type brush struct {
	BrushLink   string      `json:"brushLink"`
	XAxisIndex  []int       `json:"xAxisIndex"`
	YAxisIndex  []int       `json:"yAxisIndex"`
	SeriesIndex int         `json:"seriesIndex"`
	InBrush     brushVisual `json:"inBrush"`
}

type brushVisual struct {
	Opacity float64 `json:"opacity"`
}

type toolbox struct {
	Bottom  string         `json:"bottom"`
	Right   string         `json:"right"`
	Feature toolboxFeature `json:"feature"`
}

type toolboxFeature struct {
	Brush toolboxBrush `json:"brush"`
}

type toolboxBrush struct {
	Type  []string          `json:"type"`
	Title map[string]string `json:"title"`
}

type parallel struct {
	Top                 string       `json:"top"`
	Left                string       `json:"left"`
	Right               string       `json:"right"`
	Height              string       `json:"height"`
	ParallelAxisDefault axisDefaults `json:"parallelAxisDefault"`
}

type axisDefaults struct {
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	NameLocation  string    `json:"nameLocation"`
	NameGap       int       `json:"nameGap"`
	SplitNumber   int       `json:"splitNumber"`
	NameTextStyle textStyle `json:"nameTextStyle"`
	AxisLine      lineGroup `json:"axisLine"`
	AxisTick      lineGroup `json:"axisTick"`
	SplitLine     toggle    `json:"splitLine"`
	AxisLabel     labelText `json:"axisLabel"`
}

type textStyle struct {
	FontSize int    `json:"fontSize,omitempty"`
	Color    string `json:"color,omitempty"`
}

type lineGroup struct {
	LineStyle textStyle `json:"lineStyle"`
}

type toggle struct {
	Show bool `json:"show"`
}

type labelText struct {
	TextStyle textStyle `json:"textStyle"`
}

type axis struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	NameLocation string `json:"nameLocation"`
	NameGap      int    `json:"nameGap"`
	Scale        bool   `json:"scale"`
}

type seriesOption struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Smooth     bool       `json:"smooth,omitempty"`
	SymbolSize int        `json:"symbolSize,omitempty"`
	LineStyle  *lineStyle `json:"lineStyle,omitempty"`
	Data       any        `json:"data"`
}

type lineStyle struct {
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
}

// ChartRenderer builds the linked parallel/scatter option.
type ChartRenderer struct {
	Season string
}

func NewChartRenderer(season string) *ChartRenderer {
	return &ChartRenderer{Season: season}
}

func (r *ChartRenderer) Render(series models.Series) (*LinkedChart, error) {
	if len(series.Parallel) != len(series.Scatter) {
		return nil, errors.Errorf("series are not aligned: %d parallel, %d scatter", len(series.Parallel), len(series.Scatter))
	}
	return &LinkedChart{
		MountID: MountID,
		Option:  generateLinkedOption(series, r.Season),
		Records: series.Len(),
	}, nil
}

func generateLinkedOption(series models.Series, season string) LinkedOption {
	return LinkedOption{
		Animation: true,
		VisualMap: visualMap{
			Type:        "piecewise",
			Categories:  models.Positions,
			Dimension:   models.PositionDimension,
			Orient:      "horizontal",
			Top:         0,
			Left:        "center",
			InRange:     colorRange{Color: positionPalette},
			OutOfRange:  colorRange{Color: outOfRangeColor},
			SeriesIndex: []int{0, 1},
		},
		Brush: brush{
			BrushLink:   "all",
			XAxisIndex:  []int{},
			YAxisIndex:  []int{},
			SeriesIndex: 1,
			InBrush:     brushVisual{Opacity: 1},
		},
		Toolbox: toolbox{
			Bottom: "5%",
			Right:  "5%",
			Feature: toolboxFeature{Brush: toolboxBrush{
				Type: []string{"polygon", "keep", "clear"},
				Title: map[string]string{
					"polygon": "Lasso",
					"keep":    "Multi Select",
					"clear":   "Clear",
				},
			}},
		},
		Tooltip: opts.Tooltip{
			Show:      opts.Bool(true),
			Formatter: tooltipFormat,
		},
		ParallelAxis: parallelAxes,
		Parallel: parallel{
			Top:    "10%",
			Left:   "10%",
			Right:  "10%",
			Height: "25%",
			ParallelAxisDefault: axisDefaults{
				Type:          "value",
				Name:          season,
				NameLocation:  "end",
				NameGap:       20,
				SplitNumber:   3,
				NameTextStyle: textStyle{FontSize: 14},
				AxisLine:      lineGroup{LineStyle: textStyle{Color: axisColor}},
				AxisTick:      lineGroup{LineStyle: textStyle{Color: axisColor}},
				SplitLine:     toggle{Show: false},
				AxisLabel:     labelText{TextStyle: textStyle{Color: axisColor}},
			},
		},
		XAxis: axis{Type: "value", Name: "Offensive Rating", NameLocation: "center", NameGap: 30, Scale: true},
		YAxis: axis{Type: "value", Name: "Defensive Rating", NameLocation: "center", NameGap: 30, Scale: true},
		Grid: []opts.Grid{
			{Top: "40%", Left: "10%", Right: "10%", Bottom: "10%"},
		},
		Series: []seriesOption{
			{
				Name:      "parallel",
				Type:      "parallel",
				Smooth:    true,
				LineStyle: &lineStyle{Width: 1, Opacity: 0.3},
				Data:      series.Parallel,
			},
			{
				Name:       "scatter",
				Type:       "scatter",
				SymbolSize: 10,
				Data:       series.Scatter,
			},
		},
	}
}

// positionGroups splits tuple indexes by position, keeping input order
// within a group. Positions outside the palette share the "Other" group.
func positionGroups(series models.Series) (names []string, groups map[string][]int) {
	groups = make(map[string][]int)
	for i, tuple := range series.Parallel {
		pos, _ := tuple[models.PositionDimension].(string)
		if !models.IsKnownPosition(pos) {
			pos = "Other"
		}
		groups[pos] = append(groups[pos], i)
	}
	for _, pos := range append(append([]string{}, models.Positions...), "Other") {
		if len(groups[pos]) > 0 {
			names = append(names, pos)
		}
	}
	return names, groups
}

func positionColor(pos string) string {
	for i, p := range models.Positions {
		if p == pos {
			return positionPalette[i]
		}
	}
	return outOfRangeColor
}

func generateParallelChart(series models.Series, season string) *charts.Parallel {
	parallel := charts.NewParallel()
	parallel.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "TheRealMVP",
			Width:     "1200px",
			Height:    "450px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Per-game production",
			Subtitle: season,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Bottom: "bottom",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: tooltipFormat,
		}),
		charts.WithParallelComponentOpts(opts.ParallelComponent{
			Left:   "10%",
			Right:  "10%",
			Top:    "20%",
			Bottom: "15%",
		}),
		charts.WithParallelAxisList(echartsParallelAxes()),
	)
	// go-echarts drops dim 0, so bind every axis again once the chart is up
	parallel.AddJSFuncStrs(types.FuncStr("%MY_ECHARTS%.setOption({parallelAxis: " + parallelAxesJSON() + "});"))

	names, groups := positionGroups(series)
	for _, pos := range names {
		items := make([]opts.ParallelData, 0, len(groups[pos]))
		for _, i := range groups[pos] {
			items = append(items, opts.ParallelData{Value: series.Parallel[i]})
		}
		parallel.AddSeries(pos, items,
			charts.WithLineStyleOpts(opts.LineStyle{Color: positionColor(pos)}),
		)
	}
	return parallel
}

func echartsParallelAxes() []opts.ParallelAxis {
	axes := make([]opts.ParallelAxis, len(parallelAxes))
	for i, a := range parallelAxes {
		axes[i] = opts.ParallelAxis{Dim: a.Dim, Name: a.Name}
	}
	return axes
}

func parallelAxesJSON() string {
	raw, _ := json.Marshal(parallelAxes)
	return string(raw)
}

func generateScatterChart(series models.Series) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1200px",
			Height: "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Offensive vs defensive rating",
			Subtitle: "Points produced and allowed per 100 possessions",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Bottom: "bottom",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: tooltipFormat,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Offensive Rating",
			Type: "value",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         "Defensive Rating",
			Type:         "value",
			NameLocation: "middle",
			NameGap:      50,
		}),
	)

	names, groups := positionGroups(series)
	for _, pos := range names {
		items := make([]opts.ScatterData, 0, len(groups[pos]))
		for _, i := range groups[pos] {
			items = append(items, opts.ScatterData{Value: series.Scatter[i]})
		}
		scatter.AddSeries(pos, items,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: positionColor(pos)}),
		)
	}
	return scatter
}

// renderSplitPage writes the parallel and scatter charts as two separate
// go-echarts instances on one page.
func renderSplitPage(w io.Writer, series models.Series, season string) error {
	page := components.NewPage()
	page.AddCharts(
		generateParallelChart(series, season),
		generateScatterChart(series),
	)
	return page.Render(w)
}
