package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"properati-pricer/models"
	"properati-pricer/utils"
)

// InsightService computes descriptive analytics over the cleaned dataset.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []*models.Listing) *models.InsightReport {
	report := &models.InsightReport{
		ByNeighborhood: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	prices := make([]float64, 0, len(listings))
	areas := make([]float64, 0, len(listings))
	perM2 := make([]float64, 0, len(listings))
	priceSums := make(map[string]float64)

	for _, l := range listings {
		prices = append(prices, l.PriceUSD)
		areas = append(areas, l.SurfaceCovered)
		if v := l.PricePerM2(); v > 0 {
			perM2 = append(perM2, v)
		}
		if l.Neighborhood != "" {
			report.ByNeighborhood[l.Neighborhood]++
			priceSums[l.Neighborhood] += l.PriceUSD
		}
		if report.MostExpensive == nil || l.PriceUSD > report.MostExpensive.PriceUSD {
			report.MostExpensive = l
		}
	}

	report.Neighborhoods = len(report.ByNeighborhood)

	// The empty-input guard above makes these calls error-free.
	mean, _ := stats.Mean(prices)
	median, _ := stats.Median(prices)
	min, _ := stats.Min(prices)
	max, _ := stats.Max(prices)
	report.MeanPriceUSD = round2(mean)
	report.MedianPriceUSD = round2(median)
	report.MinPriceUSD = round2(min)
	report.MaxPriceUSD = round2(max)

	if len(perM2) > 0 {
		m2Mean, _ := stats.Mean(perM2)
		report.MeanPricePerM2 = round2(m2Mean)
	}

	corr, _ := stats.Correlation(areas, prices)
	report.AreaPriceCorr = corr

	for name, count := range report.ByNeighborhood {
		report.TopNeighborhoods = append(report.TopNeighborhoods, models.NeighborhoodStat{
			Name:         name,
			Listings:     count,
			MeanPriceUSD: round2(priceSums[name] / float64(count)),
		})
	}
	sort.Slice(report.TopNeighborhoods, func(i, j int) bool {
		a, b := report.TopNeighborhoods[i], report.TopNeighborhoods[j]
		if a.MeanPriceUSD != b.MeanPriceUSD {
			return a.MeanPriceUSD > b.MeanPriceUSD
		}
		return a.Name < b.Name
	})
	if len(report.TopNeighborhoods) > 5 {
		report.TopNeighborhoods = report.TopNeighborhoods[:5]
	}

	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 BUENOS AIRES APARTMENT INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Clean listings  : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  Neighborhoods   : \033[1m%d\033[0m\n", r.Neighborhoods)
	fmt.Println()

	// Price Stats
	fmt.Printf("\033[1;33m  Price Statistics (USD)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.MeanPriceUSD > 0 {
		fmt.Printf("  Mean price    : \033[1;32m$%.2f\033[0m\n", r.MeanPriceUSD)
		fmt.Printf("  Median price  : \033[1;32m$%.2f\033[0m\n", r.MedianPriceUSD)
		fmt.Printf("  Minimum price : \033[1;32m$%.2f\033[0m\n", r.MinPriceUSD)
		fmt.Printf("  Maximum price : \033[1;32m$%.2f\033[0m\n", r.MaxPriceUSD)
		fmt.Printf("  Mean USD/m²   : \033[1;32m$%.2f\033[0m\n", r.MeanPricePerM2)
		fmt.Printf("  Corr(area, price) : \033[1m%.3f\033[0m\n", r.AreaPriceCorr)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	// Most Expensive
	if r.MostExpensive != nil {
		fmt.Printf("\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  Neighborhood : %s\n", r.MostExpensive.Neighborhood)
		fmt.Printf("  Surface      : %.1f m²\n", r.MostExpensive.SurfaceCovered)
		fmt.Printf("  Price        : \033[1;31m$%.2f\033[0m\n", r.MostExpensive.PriceUSD)
		fmt.Printf("  %s\n", truncate(r.MostExpensive.URL, 50))
		fmt.Println()
	}

	// Top neighborhoods by mean price
	fmt.Printf("\033[1;33m  Top 5 Neighborhoods by Mean Price\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopNeighborhoods) == 0 {
		fmt.Printf("  No neighborhood data\n")
	} else {
		for i, n := range r.TopNeighborhoods {
			fmt.Printf("  \033[1m%d.\033[0m %-24s \033[1;32m$%12.2f\033[0m  (%d listings)\n",
				i+1, truncate(n.Name, 22), n.MeanPriceUSD, n.Listings)
		}
	}
	fmt.Println()

	// Listings by Neighborhood
	fmt.Printf("\033[1;33m  Listings by Neighborhood\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ByNeighborhood) == 0 {
		fmt.Printf("  No neighborhood data\n")
	} else {
		type nbhdCount struct {
			name  string
			count int
		}
		var counts []nbhdCount
		for name, cnt := range r.ByNeighborhood {
			if name != "" {
				counts = append(counts, nbhdCount{name, cnt})
			}
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].name < counts[j].name
		})
		for _, nc := range counts {
			bar := strings.Repeat("█", scaleBar(nc.count, 40))
			fmt.Printf("  %-24s %s (%d)\n", truncate(nc.name, 22), bar, nc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// scaleBar caps bar charts so huge datasets stay readable.
func scaleBar(count, max int) int {
	if count > max {
		return max
	}
	return count
}
