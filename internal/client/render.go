package client

import (
	"fmt"
	"io"
	"text/tabwriter"

	"store-rating/internal/domain"
)

// FormatAverage shows one decimal, or "New" for a store nobody has rated.
func FormatAverage(avg *float64) string {
	if avg == nil {
		return "New"
	}
	return fmt.Sprintf("%.1f", *avg)
}

func RenderAdmin(w io.Writer, v AdminView) error {
	fmt.Fprintf(w, "Total Users: %d  Total Stores: %d  Total Ratings: %d\n\n",
		v.Stats.Users, v.Stats.Stores, v.Stats.Ratings)
	if len(v.Stores) == 0 {
		_, err := fmt.Fprintln(w, "No stores added yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tADDRESS\tAVG")
	for _, s := range v.Stores {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Email, s.Address, FormatAverage(s.AvgRating))
	}
	return tw.Flush()
}

func RenderUser(w io.Writer, v UserView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tAVG\tYOURS")
	for _, s := range v.Stores {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Address, FormatAverage(s.AvgRating), myRating(s))
	}
	return tw.Flush()
}

func myRating(s domain.StoreWithRating) string {
	if s.MyRating == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *s.MyRating)
}
