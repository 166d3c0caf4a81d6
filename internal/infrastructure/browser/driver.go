package browser

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/loginrelay/loginrelay/internal/automation"
)

// PageDriver implements automation.Driver over one rod page.
type PageDriver struct {
	page *rod.Page
}

func (d *PageDriver) Navigate(ctx context.Context, url string) error {
	p := d.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitLoad()
}

func (d *PageDriver) Reload(ctx context.Context) error {
	p := d.page.Context(ctx)
	if err := p.Reload(); err != nil {
		return err
	}
	return p.WaitLoad()
}

// FindFirst tries each selector without waiting; the first hit wins.
func (d *PageDriver) FindFirst(ctx context.Context, selectors automation.SelectorList) (automation.Element, error) {
	p := d.page.Context(ctx)
	for _, sel := range selectors {
		has, el, err := p.Has(sel)
		if err != nil {
			continue
		}
		if has {
			return &pageElement{el: el}, nil
		}
	}
	return nil, automation.ErrNoMatch
}

func (d *PageDriver) FindAllByTag(ctx context.Context, tag string) ([]automation.Element, error) {
	els, err := d.page.Context(ctx).Elements(tag)
	if err != nil {
		return nil, err
	}
	out := make([]automation.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &pageElement{el: el})
	}
	return out, nil
}

func (d *PageDriver) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	_, err := d.page.Context(ctx).Timeout(timeout).Element(selector)
	return err
}

// Type enters text one character at a time so input listeners fire the way
// they do for a human typist.
func (d *PageDriver) Type(ctx context.Context, el automation.Element, text string, perCharDelay time.Duration) error {
	for _, ch := range text {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := el.Input(string(ch)); err != nil {
			return err
		}
		if perCharDelay > 0 {
			timer := time.NewTimer(perCharDelay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}
	return nil
}

func (d *PageDriver) Click(ctx context.Context, el automation.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return el.Click()
}

func (d *PageDriver) Evaluate(ctx context.Context, js string, args ...interface{}) (json.RawMessage, error) {
	res, err := d.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           js,
		JSArgs:       args,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil {
		return nil, err
	}
	return res.Value.MarshalJSON()
}

func (d *PageDriver) Cookies(ctx context.Context) ([]automation.Cookie, error) {
	res, err := proto.NetworkGetCookies{}.Call(d.page.Context(ctx))
	if err != nil {
		return nil, err
	}
	cookies := make([]automation.Cookie, 0, len(res.Cookies))
	for _, c := range res.Cookies {
		cookies = append(cookies, automation.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  float64(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return cookies, nil
}

func (d *PageDriver) SetCookies(ctx context.Context, cookies []automation.Cookie) error {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		param := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: proto.NetworkCookieSameSite(c.SameSite),
		}
		if c.Expires > 0 {
			param.Expires = proto.TimeSinceEpoch(c.Expires)
		}
		params = append(params, param)
	}
	if len(params) == 0 {
		return nil
	}
	return d.page.Context(ctx).SetCookies(params)
}

func (d *PageDriver) CurrentURL(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (d *PageDriver) Title(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (d *PageDriver) WaitNavigation(ctx context.Context, timeout time.Duration) func() error {
	p := d.page.Context(ctx).Timeout(timeout)
	wait := p.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	return func() error {
		wait()
		return p.GetContext().Err()
	}
}

// Alive probes the page target; a closed or crashed page fails the probe.
func (d *PageDriver) Alive() bool {
	_, err := d.page.Info()
	return err == nil
}

func (d *PageDriver) Close() error {
	return d.page.Close()
}

// pageElement adapts a rod element to automation.Element.
type pageElement struct {
	el *rod.Element
}

func (e *pageElement) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *pageElement) Input(text string) error {
	return e.el.Input(text)
}

func (e *pageElement) Clear() error {
	_, err := e.el.Eval(`() => { this.value = "" }`)
	return err
}

func (e *pageElement) Text() (string, error) {
	return e.el.Text()
}
