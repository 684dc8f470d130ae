package report

import (
	"fmt"
	"io"
	"strings"
)

const bookHeader = "    Id   Side    Time   Qty   Price   Qty    Time   Side\n" +
	"    ---+------+-------+-----+-------+-----+-------+------"

// Text writes the console layout of a run: the fill lines, then the book with
// sells from the worst price down to the best ask and buys from the best bid.
func Text(w io.Writer, r *Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Initiating %s order-matching\n", r.Algorithm)
	for _, f := range r.Fills {
		fmt.Fprintf(&b, "    ORDER PROCESSED:   Buyer ID: %s,   Amount filled: %d,   Seller ID: %s\n",
			f.BuyOrderID, f.Qty, f.SellOrderID)
	}

	b.WriteString("\nDisplaying remaining contents of the order book:\n")
	b.WriteString(bookHeader)
	b.WriteByte('\n')

	for i := len(r.Book.Sells) - 1; i >= 0; i-- {
		o := r.Book.Sells[i]
		fmt.Fprintf(&b, "    #%s                        %s   %d   %s   SELL\n",
			o.ID, o.Price.StringFixed(2), o.Qty, clock(o.Time))
	}
	for _, o := range r.Book.Buys {
		fmt.Fprintf(&b, "    #%s   BUY    %s   %d   %s\n",
			o.ID, clock(o.Time), o.Qty, o.Price.StringFixed(2))
	}

	b.WriteString("\nProgram finished\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// clock renders an HHMM integer as HH:MM, keeping only the last four digits.
func clock(hhmm int) string {
	if hhmm < 0 {
		hhmm = -hhmm
	}
	return fmt.Sprintf("%02d:%02d", hhmm/100%100, hhmm%100)
}
