package dialognode

import (
	"fmt"
	"strings"

	catalogx "github.com/studio-nexa/tsm-orchestrator/dialog/catalog"
)

// User-visible reply texts. The assistant speaks Russian; these strings are
// part of the product surface and tested against.
const (
	replyAskAge       = "Для записи в детскую группу нам нужно знать возраст ребенка. Сколько лет вашему ребенку?"
	replyAskAgeRetry  = "Пожалуйста, укажите возраст ребенка числом (например, 8 лет)."
	replyAskRentTime  = "Для расчета стоимости аренды зала мне нужно знать время. Аренда планируется до 16:00 или после?"
	replyRentTimeRetry = "Пожалуйста, укажите время: до 16:00 или после 16:00?"
	replyAskPeople     = "Сколько человек планируется?"
	replyPeopleRetry   = "Пожалуйста, укажите количество человек числом (например, 12)."
	replyAskFormat     = "Какой формат мероприятия? (тренировка, репетиция, фотосессия)"
	replyFormatRetry   = "Пожалуйста, укажите формат: тренировка, репетиция или фотосессия."
	replyDirectionRetry = "Пожалуйста, выберите направление из предложенного списка."
	replyDirectionMiss  = "Не удалось найти это направление. Пожалуйста, выберите из списка."
	replyEscalation     = "Ваш запрос передан администратору. В ближайшее время с вами свяжутся для уточнения деталей."
	replyGeneral        = "Спасибо за ваш вопрос! Как мы можем вам помочь?"
	replyUnknownState   = "Произошла ошибка. Начнем заново. Как мы можем вам помочь?"
	replyNoSchedule     = "Расписание временно недоступно"
)

func replyBookingIntro(directions []catalogx.Direction) string {
	var names []string
	for _, d := range directions {
		names = append(names, "• "+d.Name)
	}
	return fmt.Sprintf(
		"Отлично! Мы предлагаем пробное занятие для новых учеников. Какое направление вас интересует?\n\n%s",
		strings.Join(names, "\n"),
	)
}

func replyScheduleOverview(snapshot catalogx.Snapshot, limit int) string {
	var lines []string
	for i, item := range snapshot.Schedule {
		if i == limit {
			break
		}
		name := item.DirectionID
		if d, ok := snapshot.DirectionByID(item.DirectionID); ok {
			name = d.Name
		}
		lines = append(lines, fmt.Sprintf("• %s, %s — %s", item.Day, item.Time, name))
	}
	body := replyNoSchedule
	if len(lines) > 0 {
		body = strings.Join(lines, "\n")
	}
	return fmt.Sprintf("Расписание занятий:\n\n%s\n\nХотите записаться на пробное занятие?", body)
}

func replyKidsGroup(age int, group catalogx.Direction) string {
	limit := group.GroupLimit
	if limit <= 0 {
		limit = 12
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Для возраста %d лет подходит группа «%s».\n\n", age, group.Name)
	fmt.Fprintf(&b, "Лимит: %d человек.\n", limit)
	b.WriteString("Форма на занятии: удобная спортивная одежда. Можно записаться разово или по абонементу.\n\n")
	b.WriteString("Записать на пробное или подобрать расписание?")
	return b.String()
}

func replyKidsNoGroup(age int) string {
	return fmt.Sprintf("Для возраста %d лет у нас пока нет подходящей группы. Обратитесь к администратору для уточнения.", age)
}

func replyBookingSlots(direction catalogx.Direction, slots []catalogx.ScheduleEntry) string {
	var lines []string
	for _, s := range slots {
		lines = append(lines, fmt.Sprintf("• %s, %s — %s", s.Day, s.Time, direction.Name))
	}
	return fmt.Sprintf(
		"Отлично! Вы выбрали «%s».\n\nДоступные слоты:\n%s\n\nСтоимость пробного занятия: %d руб.",
		direction.Name, strings.Join(lines, "\n"), direction.TrialPrice,
	)
}

func replyBookingNoSlots(direction catalogx.Direction) string {
	return fmt.Sprintf("Выбрано направление «%s», но слоты временно недоступны. Обратитесь к администратору.", direction.Name)
}

func replyLimitViolation(violation string) string {
	return violation + "\n\nПожалуйста, измените формат или количество участников, либо обратитесь к администратору."
}
