package lunar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var stems = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

var branches = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

var zodiacs = [12]string{"鼠", "牛", "虎", "兔", "龙", "蛇", "马", "羊", "猴", "鸡", "狗", "猪"}

// monthNames uses the traditional forms 冬月 and 腊月 for the last two
// months.
var monthNames = [12]string{
	"正月", "二月", "三月", "四月", "五月", "六月",
	"七月", "八月", "九月", "十月", "冬月", "腊月",
}

var dayNames = [30]string{
	"初一", "初二", "初三", "初四", "初五", "初六", "初七", "初八", "初九", "初十",
	"十一", "十二", "十三", "十四", "十五", "十六", "十七", "十八", "十九", "二十",
	"廿一", "廿二", "廿三", "廿四", "廿五", "廿六", "廿七", "廿八", "廿九", "三十",
}

// festivals maps "month-day" keys on the lunisolar calendar to
// traditional festival names. Both 12-29 and 12-30 map to 除夕 so the
// eve resolves whether the final month is short or long.
var festivals = map[string]string{
	"1-1":   "春节",
	"1-15":  "元宵节",
	"2-2":   "龙抬头",
	"5-5":   "端午节",
	"7-7":   "七夕",
	"7-15":  "中元节",
	"8-15":  "中秋节",
	"9-9":   "重阳节",
	"10-15": "下元节",
	"12-8":  "腊八节",
	"12-23": "小年",
	"12-29": "除夕",
	"12-30": "除夕",
}

// StemBranch returns the sexagenary name of a lunar year, such as 甲子
// for 1984 or 庚子 for 1900.
func StemBranch(year int) string {
	s := (year - 4) % 10
	b := (year - 4) % 12
	if s < 0 {
		s += 10
	}
	if b < 0 {
		b += 12
	}
	return stems[s] + branches[b]
}

// Zodiac returns the animal of a lunar year, such as 鼠 for 1900.
func Zodiac(year int) string {
	z := (year - 4) % 12
	if z < 0 {
		z += 12
	}
	return zodiacs[z]
}

// MonthName returns the Chinese name of lunar month m (1..12),
// prefixed with 闰 when leap is set.
func MonthName(m int, leap bool) string {
	if leap {
		return "闰" + monthNames[m-1]
	}
	return monthNames[m-1]
}

// DayName returns the Chinese name of lunar day d (1..30).
func DayName(d int) string {
	return dayNames[d-1]
}

// String renders the date in the traditional month-day form, such as
// 正月初一 or 闰二月初五.
func (d Date) String() string {
	return MonthName(d.Month, d.IsLeapMonth) + DayName(d.Day)
}

// FestivalOf returns the festival falling on a lunar date, if any.
// Days in leap months never carry a festival.
func FestivalOf(d Date) (string, bool) {
	if d.IsLeapMonth {
		return "", false
	}
	name, ok := festivals[fmt.Sprintf("%d-%d", d.Month, d.Day)]
	return name, ok
}

// Festival returns the festival falling on t's civil date, if any.
func Festival(t time.Time) (string, bool) {
	return FestivalOf(FromSolar(t))
}

// FestivalDate is a festival resolved to its civil date.
type FestivalDate struct {
	Name  string    `json:"name"`
	Lunar Date      `json:"lunar"`
	Time  time.Time `json:"time"`
}

// Festivals returns the festivals of a lunar year with their civil
// dates, in calendar order. Entries whose lunar day does not exist
// that year are omitted, so 除夕 appears exactly once, on the true
// final day of the year.
func Festivals(year int) ([]FestivalDate, error) {
	if year < MinYear || year > MaxYear {
		return nil, fmt.Errorf("lunar year %d out of range [%d, %d]", year, MinYear, MaxYear)
	}
	var out []FestivalDate
	for key, name := range festivals {
		ms, ds, _ := strings.Cut(key, "-")
		m, _ := strconv.Atoi(ms)
		d, _ := strconv.Atoi(ds)
		if m == 12 && d == 29 && MonthDays(year, 12) == 30 {
			continue
		}
		ld := Date{Year: year, Month: m, Day: d}
		t, err := ToSolar(ld)
		if err != nil {
			continue
		}
		out = append(out, FestivalDate{Name: name, Lunar: ld, Time: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}
