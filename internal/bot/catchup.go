package bot

import (
	"fmt"
	"time"

	"advent-bot/internal/domain"
)

// catchUpPlan is the resolved outcome of a catch-up request: either a day
// range to deliver or just a notice explaining why nothing will be sent.
type catchUpPlan struct {
	deliver  bool
	notice   string
	startDay int
	endDay   int
}

// planCatchUp decides what a catch-up request at the given moment should
// send. Before the start nothing is deliverable; on day one there is no past
// day yet; after the campaign the full run is sent; otherwise every day
// strictly before the current one.
func planCatchUp(campaign *domain.Campaign, now time.Time) catchUpPlan {
	day := campaign.CurrentDay(now)

	if day == 0 {
		return catchUpPlan{notice: notStartedText}
	}

	if campaign.Ended(now) {
		return catchUpPlan{
			deliver:  true,
			notice:   fmt.Sprintf("📖 Отправляю все %d дней...", campaign.TotalDays),
			startDay: 1,
			endDay:   campaign.TotalDays,
		}
	}

	endDay := day - 1
	if endDay < 1 {
		return catchUpPlan{notice: firstDayText}
	}

	return catchUpPlan{
		deliver:  true,
		notice:   fmt.Sprintf("📖 Отправляю материалы с 1 по %d день...", endDay),
		startDay: 1,
		endDay:   endDay,
	}
}
